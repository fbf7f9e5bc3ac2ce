package adapter

import (
	"context"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// ChatAdapter turns a validated generation request into a complete reply.
type ChatAdapter interface {
	CreateCompletion(ctx context.Context, req generation.Request) (string, error)
}

// StreamingChatAdapter additionally yields the reply incrementally. The
// returned channel is closed when the provider finishes; a failure is
// delivered as a final event with Error set.
type StreamingChatAdapter interface {
	ChatAdapter
	CreateCompletionStream(ctx context.Context, req generation.Request) (<-chan StreamEvent, error)
}

// Named is implemented by adapters that report a provider name.
type Named interface {
	Name() string
}

// StreamEvent is one provider increment.
type StreamEvent struct {
	Delta string
	Error error
}

// IsError reports whether the event carries a provider failure.
func (e StreamEvent) IsError() bool { return e.Error != nil }

// ProviderName returns a's name, or "unknown" when a does not report one.
func ProviderName(a ChatAdapter) string {
	if n, ok := a.(Named); ok {
		return n.Name()
	}
	return "unknown"
}

// Send delivers ev on ch unless ctx is cancelled first.
func Send(ctx context.Context, ch chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
