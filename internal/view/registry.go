package view

import (
	"sync"
	"time"
)

// Registry hands out one View per admin session. The canonical collection is
// owned exclusively by the session that fetched it; nothing is shared across
// sessions and there is no cross-page cache.
type Registry[T any] struct {
	mu    sync.Mutex
	spec  Spec[T]
	views map[string]*tracked[T]
}

type tracked[T any] struct {
	view     *View[T]
	lastSeen time.Time
}

func NewRegistry[T any](spec Spec[T]) *Registry[T] {
	return &Registry[T]{
		spec:  spec,
		views: make(map[string]*tracked[T]),
	}
}

// For returns the session's view, creating it on first use.
func (r *Registry[T]) For(sessionID string) *View[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.views[sessionID]
	if !ok {
		t = &tracked[T]{view: New(r.spec)}
		r.views[sessionID] = t
	}
	t.lastSeen = time.Now()
	return t.view
}

// Drop discards the session's view, e.g. on logout.
func (r *Registry[T]) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, sessionID)
}

// EvictIdle removes views not touched within maxIdle and reports how many
// were dropped. Run periodically so abandoned sessions do not pin
// collections in memory.
func (r *Registry[T]) EvictIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	n := 0
	for id, t := range r.views {
		if t.lastSeen.Before(cutoff) {
			delete(r.views, id)
			n++
		}
	}
	return n
}
