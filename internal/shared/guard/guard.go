// Package guard provides the mutual-exclusion discipline for the billing
// engine. All mutating operations run under the write lock; read-only
// queries share the read lock so they never observe a half-written
// mutation. A batch holds the write lock across all of its items.
package guard

import "sync"

// Guard serializes mutating operations against a shared state space.
type Guard struct {
	mu sync.RWMutex
}

// New creates a new Guard.
func New() *Guard {
	return &Guard{}
}

// Do runs fn while holding the exclusive lock.
func (g *Guard) Do(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}

// DoRead runs fn while holding the shared lock. Reads may run concurrently
// with each other but never interleave with a mutation.
func (g *Guard) DoRead(fn func() error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn()
}
