package pk2

import "sync"

// guard serializes access to the stream and chain index: every operation
// takes the guard for its entire stream-touching critical section, then
// releases it. File handles re-acquire it on every Read/Write call rather
// than holding it across user code.
//
// sync.RWMutex covers both a single-threaded embedder, which simply never
// contends on it, and a multi-threaded embedder, which gets shared-exclusive
// behavior (many readers, one writer) for free. No third-party alternative
// in the corpus offers anything beyond what the standard library already
// does here, so this one ambient concern is deliberately stdlib (see
// DESIGN.md).
type guard struct {
	mu sync.RWMutex
}

// withRead runs fn while holding the guard for shared (reader) access.
func (g *guard) withRead(fn func() error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn()
}

// withWrite runs fn while holding the guard for exclusive (writer) access.
func (g *guard) withWrite(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}
