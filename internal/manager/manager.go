package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"segd/internal/cache"
)

// Manager is the model session. It holds at most one predictor, constructed
// once with a fixed ModelSpec, and serializes every use of it.
type Manager struct {
	mu        sync.RWMutex
	state     State
	err       string
	predictor Predictor

	// loadMu serializes predictor construction.
	loadMu sync.Mutex
	// slot is the single in-flight token; capacity 1.
	slot chan struct{}

	// sessionID names this process's session in /status and logs.
	sessionID string
	requested Device
	spec      ModelSpec
	factory   PredictorFactory
	decoder   ImageDecoder
	cache     *cache.Slot
	publisher EventPublisher
	history   *EventRing

	loadsTotal    atomic.Uint64
	segmentsTotal atomic.Uint64
	startTime     time.Time
}

// New builds a Manager for one checkpoint on the given device with the
// default ONNX predictor and file decoder.
func New(spec ModelSpec, cacheEnabled bool) *Manager {
	return NewWithConfig(ManagerConfig{
		Checkpoint:   spec.Checkpoint,
		Device:       spec.Device,
		RuntimeLib:   spec.RuntimeLib,
		NumThreads:   spec.NumThreads,
		CacheEnabled: cacheEnabled,
	})
}

// Ready reports whether the predictor is loaded.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady && m.predictor != nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Spec returns the fixed model spec with the device already resolved.
func (m *Manager) Spec() ModelSpec { return m.spec }

// SetEventPublisher replaces the event sink. Call before serving requests.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.mu.Lock()
	m.publisher = p
	m.mu.Unlock()
}

// Close waits for the in-flight segmentation, releases the predictor and
// moves the session to StateClosed. Later calls fail with DependencyUnavailable.
func (m *Manager) Close() error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	m.slot <- struct{}{}
	defer func() { <-m.slot }()

	m.mu.Lock()
	pred := m.predictor
	m.predictor = nil
	m.state = StateClosed
	m.mu.Unlock()
	if pred == nil {
		return nil
	}
	return pred.Close()
}

func (m *Manager) readyPredictor() (Predictor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.state == StateClosed:
		return nil, ErrDependencyUnavailable("session closed")
	case m.state != StateReady || m.predictor == nil:
		return nil, ErrNotInitialized
	}
	return m.predictor, nil
}
