// Package cache holds the optional single-slot result cache.
//
// The slot has no key, no expiry and no size bound: while enabled it replays
// the last stored body for every request, whatever the request asked for. It
// exists to skip recomputation while iterating locally and is off by default.
package cache

import (
	"sync"

	"segd/pkg/types"
)

// Slot stores at most one serialized response body.
type Slot struct {
	enabled bool

	mu     sync.RWMutex
	body   []byte
	hits   uint64
	misses uint64
	stores uint64
}

// New returns a slot. enabled is fixed for the slot's lifetime.
func New(enabled bool) *Slot { return &Slot{enabled: enabled} }

// Enabled reports whether the slot stores and replays bodies.
func (s *Slot) Enabled() bool { return s != nil && s.enabled }

// Get returns the stored body. ok is false when disabled or empty.
// The returned slice must not be modified.
func (s *Slot) Get() (body []byte, ok bool) {
	if !s.Enabled() {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body == nil {
		s.misses++
		return nil, false
	}
	s.hits++
	return s.body, true
}

// Put replaces the stored body with a copy of body. No-op when disabled.
func (s *Slot) Put(body []byte) {
	if !s.Enabled() {
		return
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	s.mu.Lock()
	s.body = cp
	s.stores++
	s.mu.Unlock()
}

// Stats returns a snapshot of the slot counters.
func (s *Slot) Stats() types.CacheStats {
	if s == nil {
		return types.CacheStats{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.CacheStats{
		Enabled: s.enabled,
		Filled:  s.body != nil,
		Hits:    s.hits,
		Misses:  s.misses,
		Stores:  s.stores,
	}
}
