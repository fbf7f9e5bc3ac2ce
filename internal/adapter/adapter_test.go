package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

type namedStub struct{}

func (namedStub) CreateCompletion(context.Context, generation.Request) (string, error) {
	return "", nil
}

func (namedStub) Name() string { return "stub" }

type anonStub struct{}

func (anonStub) CreateCompletion(context.Context, generation.Request) (string, error) {
	return "", nil
}

func TestProviderName(t *testing.T) {
	if got := ProviderName(namedStub{}); got != "stub" {
		t.Fatalf("expected stub, got %q", got)
	}
	if got := ProviderName(anonStub{}); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestStreamEventHelpers(t *testing.T) {
	tests := []struct {
		name    string
		event   StreamEvent
		isError bool
	}{
		{name: "error", event: StreamEvent{Error: errors.New("boom")}, isError: true},
		{name: "delta", event: StreamEvent{Delta: "hi"}},
		{name: "zero", event: StreamEvent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.IsError(); got != tt.isError {
				t.Errorf("IsError() = %v, want %v", got, tt.isError)
			}
		})
	}
}

func TestSendStopsOnCancel(t *testing.T) {
	ch := make(chan StreamEvent)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if Send(ctx, ch, StreamEvent{Delta: "x"}) {
		t.Fatalf("expected send to give up after cancellation")
	}

	buffered := make(chan StreamEvent, 1)
	if !Send(context.Background(), buffered, StreamEvent{Delta: "y"}) {
		t.Fatalf("expected buffered send to succeed")
	}
	if ev := <-buffered; ev.Delta != "y" {
		t.Fatalf("unexpected event %#v", ev)
	}
}
