package manager

import (
	"time"

	"segd/pkg/types"
)

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{State: m.state, Device: m.spec.Device, Err: m.err}
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	state, lastErr, loaded := m.state, m.err, m.predictor != nil
	m.mu.RUnlock()

	now := time.Now()
	resp := types.StatusResponse{
		SessionID:      m.sessionID,
		State:          string(state),
		Device:         string(m.requested),
		Checkpoint:     m.spec.Checkpoint,
		Cache:          m.cache.Stats(),
		Inflight:       len(m.slot),
		LoadsTotal:     m.loadsTotal.Load(),
		SegmentsTotal:  m.segmentsTotal.Load(),
		LastError:      lastErr,
		RecentEvents:   m.history.Records(),
		UptimeSeconds:  int64(now.Sub(m.startTime) / time.Second),
		ServerTimeUnix: now.Unix(),
	}
	if loaded {
		resp.ResolvedDevice = string(m.spec.Device)
	}
	return resp
}
