package metrics

import "time"

// Event is a single measurement with optional tags and fields.
type Event struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

// Observer receives events. Implementations must be safe for concurrent use;
// every chat request records from its own goroutine.
type Observer interface {
	RecordEvent(ev Event)
}

// Flusher is implemented by observers with buffered output.
type Flusher interface {
	Flush() error
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(Event) {}

// OrNoop returns obs, or a NoopObserver when obs is nil, so call sites never
// nil-check.
func OrNoop(obs Observer) Observer {
	if obs == nil {
		return NoopObserver{}
	}
	return obs
}
