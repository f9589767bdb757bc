// Package eventbus provides the engine's synchronous event dispatch
// primitive: a mapping from subscription key to callback so a
// subscriber can unbind exactly its own handler without iterating.
package eventbus

import (
	"sync"

	"github.com/flowgraph/flowgraph/internal/core/identity"
)

// Dispatcher[F] is a keyed set of callbacks of type F. Broadcast is the
// caller's responsibility (range over Snapshot and invoke each
// callback); this type only owns the bind/unbind bookkeeping and its
// mutex.
type Dispatcher[F any] struct {
	mu        sync.RWMutex
	callbacks map[uint64]F
}

// New constructs an empty dispatcher.
func New[F any]() *Dispatcher[F] {
	return &Dispatcher[F]{callbacks: make(map[uint64]F)}
}

// Bind registers fn under key, replacing any handler already bound to
// that exact key.
func (d *Dispatcher[F]) Bind(key identity.Name, fn F) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callbacks[key.Hash()] = fn
}

// Unbind removes the handler registered under key, if any.
func (d *Dispatcher[F]) Unbind(key identity.Name) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.callbacks, key.Hash())
}

// Snapshot returns a copy of the currently bound callbacks, safe to
// range over while the dispatcher mutates concurrently. Broadcasting
// synchronously on the emitting goroutine is the caller's
// responsibility.
func (d *Dispatcher[F]) Snapshot() []F {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]F, 0, len(d.callbacks))
	for _, fn := range d.callbacks {
		out = append(out, fn)
	}
	return out
}

// Len reports the number of bound callbacks.
func (d *Dispatcher[F]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.callbacks)
}
