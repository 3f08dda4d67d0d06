// Package keymutex provides per-key mutual exclusion. Locks are
// created lazily on first use and never removed, so a bounded keyspace
// means a bounded registry.
package keymutex

import (
	"context"
	"sync"
)

// Mutex is a single-key lock. Waits are context-aware: a waiter whose
// context ends before the lock frees gives up without ever holding it.
type Mutex struct {
	ch chan struct{}
}

func newMutex() *Mutex { return &Mutex{ch: make(chan struct{}, 1)} }

// Lock acquires the mutex. It returns ctx.Err() when ctx is done while
// waiting; the mutex is not held in that case.
func (m *Mutex) Lock(ctx context.Context) error {
	// Fast path: uncontended acquire without touching ctx.
	select {
	case m.ch <- struct{}{}:
		return nil
	default:
	}
	select {
	case m.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock releases the mutex. Unlocking a mutex that is not held is a
// programming error, same as sync.Mutex.
func (m *Mutex) Unlock() {
	select {
	case <-m.ch:
	default:
		panic("keymutex: unlock of unlocked mutex")
	}
}

// Registry hands out one Mutex per key.
type Registry struct {
	mu    sync.RWMutex
	locks map[string]*Mutex
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*Mutex)}
}

// Get returns the mutex bound to key, creating it on first use.
// Creation is synchronized: two concurrent first-accesses to the same
// key observe the same handle.
func (r *Registry) Get(key string) *Mutex {
	r.mu.RLock()
	m, ok := r.locks[key]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.locks[key]; ok {
		return m
	}
	m = newMutex()
	r.locks[key] = m
	return m
}
