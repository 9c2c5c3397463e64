package manager

import (
	"sync"

	"segd/pkg/types"
)

// defaultEventHistory is how many events the manager keeps for /status.
const defaultEventHistory = 32

// EventRing is a bounded, in-memory EventPublisher that keeps the newest
// events. The manager always records into one; tests read it directly.
type EventRing struct {
	mu   sync.Mutex
	buf  []Event
	head int // index of the oldest event once the ring is full
	full bool
}

// NewEventRing returns a ring holding up to size events (at least 1).
func NewEventRing(size int) *EventRing {
	if size < 1 {
		size = 1
	}
	return &EventRing{buf: make([]Event, 0, size)}
}

func (r *EventRing) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		r.buf = append(r.buf, e)
		r.full = len(r.buf) == cap(r.buf)
		return
	}
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
}

// Events returns the retained events, oldest first.
func (r *EventRing) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.buf))
	out = append(out, r.buf[r.head:]...)
	return append(out, r.buf[:r.head]...)
}

// Names returns the retained event names, oldest first.
func (r *EventRing) Names() []string {
	evs := r.Events()
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.Name
	}
	return out
}

// Records converts the retained events for the status payload.
func (r *EventRing) Records() []types.EventRecord {
	evs := r.Events()
	out := make([]types.EventRecord, len(evs))
	for i, e := range evs {
		out[i] = types.EventRecord{Name: e.Name, TimeUnixMs: e.At.UnixMilli(), Fields: e.Fields}
	}
	return out
}
