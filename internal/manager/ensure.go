package manager

import (
	"context"
	"time"

	"segd/pkg/types"
)

// Initialize loads the predictor if it is not loaded yet. Repeated and
// concurrent calls construct it at most once; every call after the first
// success reports AlreadyInitialized without doing any work.
func (m *Manager) Initialize(ctx context.Context) (types.InitResponse, error) {
	if m.Ready() {
		initsTotal.WithLabelValues("already").Inc()
		return types.InitResponse{Success: true, AlreadyInitialized: true}, nil
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	// Re-check under the load lock: a concurrent call may have finished loading.
	m.mu.Lock()
	switch m.state {
	case StateReady:
		m.mu.Unlock()
		initsTotal.WithLabelValues("already").Inc()
		return types.InitResponse{Success: true, AlreadyInitialized: true}, nil
	case StateClosed:
		m.mu.Unlock()
		return types.InitResponse{}, ErrDependencyUnavailable("session closed")
	}
	if err := ctx.Err(); err != nil {
		m.mu.Unlock()
		return types.InitResponse{}, err
	}
	m.state = StateLoading
	m.err = ""
	m.mu.Unlock()

	start := time.Now()
	m.emit("init_start", map[string]any{"device": string(m.spec.Device)})
	pred, err := m.factory.Load(ctx, m.spec)
	if err == nil && pred == nil {
		err = ErrDependencyUnavailable("predictor factory returned no predictor")
	}
	if err != nil {
		if !IsDependencyUnavailable(err) && !IsResourceLoad(err) {
			err = ErrResourceLoad(ResourceModel, m.spec.Checkpoint.EncoderPath, err)
		}
		m.mu.Lock()
		m.state = StateError
		m.err = err.Error()
		m.mu.Unlock()
		initsTotal.WithLabelValues("error").Inc()
		m.emit("init_error", map[string]any{"error": err.Error()})
		return types.InitResponse{}, err
	}

	m.mu.Lock()
	m.predictor = pred
	m.state = StateReady
	m.err = ""
	m.mu.Unlock()
	m.loadsTotal.Add(1)
	initsTotal.WithLabelValues("loaded").Inc()
	m.emit("init_ready", map[string]any{
		"device": string(m.spec.Device),
		"dur_ms": int(time.Since(start) / time.Millisecond),
	})
	return types.InitResponse{Success: true, AlreadyInitialized: false}, nil
}
