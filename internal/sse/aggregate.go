package sse

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

const readChunkSize = 4096

// StreamError is returned when the stream ends with an error record.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string { return e.Message }

// Aggregator folds a record stream into a generation.Result.
type Aggregator struct {
	// OnEvent, when set, observes every decoded event in order.
	OnEvent func(generation.Event)
	// Logger receives decode anomalies and the missing-terminal warning.
	Logger Logger

	decoder  *Decoder
	complete bool
}

// Consume reads r until a terminal record, EOF, a read failure or ctx
// cancellation. The returned Result always carries the reply text collected
// so far, even when err is non-nil.
func (a *Aggregator) Consume(ctx context.Context, r io.Reader) (generation.Result, error) {
	a.decoder = NewDecoder(a.Logger)
	a.complete = false

	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return a.partial(), err
		}
		n, readErr := r.Read(buf)
		if n > 0 {
			if res, done, err := a.apply(a.decoder.Feed(buf[:n])); done {
				return res, err
			}
		}
		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return a.partial(), ctxErr
		}
		return a.partial(), fmt.Errorf("sse: read stream: %w", readErr)
	}

	if res, done, err := a.apply(a.decoder.End()); done {
		return res, err
	}
	if a.Logger != nil {
		a.Logger.Printf("sse: stream ended without a terminal record (%d bytes of reply)", len(a.decoder.Reply()))
	}
	return a.partial(), nil
}

// Complete reports whether the last Consume saw a Done record.
func (a *Aggregator) Complete() bool { return a.complete }

// Terminated reports whether the last Consume saw a Done or Error record.
func (a *Aggregator) Terminated() bool {
	return a.decoder != nil && a.decoder.Finished()
}

func (a *Aggregator) apply(events []generation.Event) (generation.Result, bool, error) {
	for _, ev := range events {
		if a.OnEvent != nil {
			a.OnEvent(ev)
		}
	}
	term, finished := a.decoder.Terminal()
	if !finished {
		return generation.Result{}, false, nil
	}
	switch term.Kind {
	case generation.EventDone:
		a.complete = true
		return generation.Result{
			Reply:       a.decoder.Reply(),
			UsedModel:   term.UsedModel,
			Temperature: term.Temperature,
			CreatedAt:   term.CreatedAt,
		}, true, nil
	default:
		return a.partial(), true, &StreamError{Message: term.Message}
	}
}

func (a *Aggregator) partial() generation.Result {
	if a.decoder == nil {
		return generation.Result{}
	}
	return generation.Result{Reply: a.decoder.Reply()}
}

// Consume is a convenience wrapper around a one-shot Aggregator.
func Consume(ctx context.Context, r io.Reader, onEvent func(generation.Event)) (generation.Result, error) {
	agg := &Aggregator{OnEvent: onEvent}
	return agg.Consume(ctx, r)
}
