package core

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryEventSink retains published events in memory for tests and
// reconciliation tooling.
type MemoryEventSink struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements domain.EventSink.
func (s *MemoryEventSink) Publish(event Event) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return nil
}

// Events returns a copy of the published events in publication order.
func (s *MemoryEventSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// LogrusEventSink writes each committed event as one structured log line.
type LogrusEventSink struct {
	base logrus.FieldLogger
}

// NewLogrusEventSink constructs a sink over the supplied logger. A nil base
// constructs a JSON-formatted logrus logger.
func NewLogrusEventSink(base logrus.FieldLogger) *LogrusEventSink {
	if base == nil {
		std := logrus.New()
		std.SetFormatter(&logrus.JSONFormatter{})
		base = std
	}
	return &LogrusEventSink{base: base}
}

// Publish implements domain.EventSink.
func (s *LogrusEventSink) Publish(event Event) error {
	s.base.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"operation":   event.Operation,
		"actor":       event.Actor,
		"occurred_at": event.OccurredAt,
		"changes":     len(event.Changes),
	}).Info("ledger event")
	return nil
}
