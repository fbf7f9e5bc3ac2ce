package loopback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/adapter"
	"github.com/devwithfarshi/ai-playground/internal/generation"
)

var _ adapter.StreamingChatAdapter = (*LoopbackAdapter)(nil)

// LoopbackAdapter echoes the prompt back to the caller. It needs no
// credentials and is used when no provider key is configured.
type LoopbackAdapter struct {
	// Delay is slept between streamed fragments.
	Delay time.Duration
}

// New creates a LoopbackAdapter instance.
func New() *LoopbackAdapter {
	return &LoopbackAdapter{}
}

func (a *LoopbackAdapter) Name() string { return "loopback" }

// CreateCompletion fabricates a deterministic reply for exercising the relay.
func (a *LoopbackAdapter) CreateCompletion(ctx context.Context, req generation.Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("loopback: empty prompt")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "[loopback] " + prompt, nil
}

// CreateCompletionStream yields the same reply as CreateCompletion, one
// word (with its trailing whitespace) per event.
func (a *LoopbackAdapter) CreateCompletionStream(ctx context.Context, req generation.Request) (<-chan adapter.StreamEvent, error) {
	reply, err := a.CreateCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	ch := make(chan adapter.StreamEvent)
	go func() {
		defer close(ch)
		for i, frag := range Fragments(reply) {
			if i > 0 && a.Delay > 0 {
				select {
				case <-time.After(a.Delay):
				case <-ctx.Done():
					return
				}
			}
			if !adapter.Send(ctx, ch, adapter.StreamEvent{Delta: frag}) {
				return
			}
		}
	}()
	return ch, nil
}

// Fragments splits s after each run of whitespace so that joining the
// fragments yields s again.
func Fragments(s string) []string {
	var out []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := r == ' ' || r == '\t' || r == '\n' || r == '\r'
		if inSpace && !space {
			out = append(out, s[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
