// Package sse implements the event-stream framing shared by the relay and its
// clients: one `data: <json>` record per event followed by a blank line.
package sse

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// Marker prefixes every event-bearing record.
const Marker = "data:"

// Payload is the JSON object carried by a record. Exactly one of Start,
// Content, Done or Error is meaningful per record.
type Payload struct {
	Start       bool       `json:"start,omitempty"`
	Content     string     `json:"content,omitempty"`
	Done        bool       `json:"done,omitempty"`
	UsedModel   string     `json:"usedModel,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Error       bool       `json:"error,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// PayloadOf maps an event to its wire payload.
func PayloadOf(ev generation.Event) (Payload, error) {
	switch ev.Kind {
	case generation.EventStart:
		return Payload{Start: true}, nil
	case generation.EventContent:
		return Payload{Content: ev.Content}, nil
	case generation.EventDone:
		temp := ev.Temperature
		created := ev.CreatedAt
		return Payload{Done: true, UsedModel: ev.UsedModel, Temperature: &temp, CreatedAt: &created}, nil
	case generation.EventError:
		return Payload{Error: true, Message: ev.Message}, nil
	default:
		return Payload{}, fmt.Errorf("sse: unknown event kind %q", ev.Kind)
	}
}

// Frame renders ev as a complete record including the trailing blank line.
func Frame(ev generation.Event) ([]byte, error) {
	p, err := PayloadOf(ev)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("sse: marshal payload: %w", err)
	}
	out := make([]byte, 0, len(body)+len(Marker)+3)
	out = append(out, Marker...)
	out = append(out, ' ')
	out = append(out, body...)
	out = append(out, '\n', '\n')
	return out, nil
}
