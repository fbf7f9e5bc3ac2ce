package generation

import "time"

// EventKind tags a stream event.
type EventKind string

const (
	EventStart   EventKind = "start"
	EventContent EventKind = "content"
	EventDone    EventKind = "done"
	EventError   EventKind = "error"
)

// Event is one logical record of a generation stream. A well-formed stream
// carries at most one Start, any number of Content events and exactly one
// terminal event (Done or Error).
type Event struct {
	Kind EventKind

	// Content
	Content string

	// Done
	UsedModel   string
	Temperature float64
	CreatedAt   time.Time

	// Error
	Message string
}

// StartEvent opens a stream.
func StartEvent() Event { return Event{Kind: EventStart} }

// ContentEvent carries one reply fragment.
func ContentEvent(fragment string) Event {
	return Event{Kind: EventContent, Content: fragment}
}

// DoneEvent ends a stream successfully. createdAt is stored in UTC.
func DoneEvent(model string, temperature float64, createdAt time.Time) Event {
	return Event{Kind: EventDone, UsedModel: model, Temperature: temperature, CreatedAt: createdAt.UTC()}
}

// ErrorEvent ends a stream with a failure message.
func ErrorEvent(message string) Event {
	return Event{Kind: EventError, Message: message}
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventError
}
