package domain

import "time"

// Event is the audit record emitted after each successfully committed
// operation. Changes carry the before/after images captured inside the
// transaction. Events are append-only outputs; nothing in the engine reads
// them back.
type Event struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
	Changes    []Change  `json:"changes"`
}

// EventSink receives committed operation events. Implementations must not
// block the caller for long; a sink error is logged, never propagated, since
// the transaction has already committed.
type EventSink interface {
	Publish(Event) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event) error

// Publish invokes the wrapped function.
func (f EventSinkFunc) Publish(ev Event) error {
	return f(ev)
}
