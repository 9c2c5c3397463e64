package manager

import (
	"time"

	"github.com/rs/zerolog"
)

// Event is a session lifecycle event: a name, the checkpoint variant and
// optional key/values.
type Event struct {
	Name    string
	Variant string
	At      time.Time
	Fields  map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// zlog is the manager's logger; silent until SetLogger is called.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the manager.
func SetLogger(l zerolog.Logger) { zlog = l.With().Str("component", "manager").Logger() }

// emit logs the event and hands it to the publisher.
func (m *Manager) emit(name string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	level := zerolog.InfoLevel
	if _, failed := fields["error"]; failed {
		level = zerolog.WarnLevel
	}
	zlog.WithLevel(level).Str("event", name).Str("variant", m.spec.Checkpoint.Variant).Str("session", m.sessionID).Fields(fields).Msg("manager event")
	e := Event{Name: name, Variant: m.spec.Checkpoint.Variant, At: time.Now(), Fields: fields}
	m.history.Publish(e)
	m.mu.RLock()
	pub := m.publisher
	m.mu.RUnlock()
	pub.Publish(e)
}
