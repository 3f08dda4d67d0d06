package cache

import (
	"context"
	"sync"
)

// Native is the default in-process cache: an RWMutex-guarded map with
// no TTL. Suits the intended workload (a bounded set of keys, each
// with one small document); memory is bounded by the keyspace.
//
// MaxEntries, when positive, caps the map by clearing it entirely at
// the cap. Crude, but every dropped entry is re-readable from the
// backend, so correctness is unaffected.
type Native struct {
	mu         sync.RWMutex
	docs       map[string]Document
	maxEntries int
}

var _ Cache = (*Native)(nil)

// NewNative returns a Native cache. maxEntries <= 0 means unbounded.
func NewNative(maxEntries int) *Native {
	return &Native{
		docs:       make(map[string]Document),
		maxEntries: maxEntries,
	}
}

func (n *Native) Get(_ context.Context, key string) (Document, bool, error) {
	n.mu.RLock()
	doc, ok := n.docs[key]
	n.mu.RUnlock()
	return doc, ok, nil
}

func (n *Native) Set(_ context.Context, key string, doc Document) error {
	n.mu.Lock()
	if n.maxEntries > 0 && len(n.docs) >= n.maxEntries {
		if _, exists := n.docs[key]; !exists {
			n.docs = make(map[string]Document)
		}
	}
	n.docs[key] = doc
	n.mu.Unlock()
	return nil
}

func (n *Native) Del(_ context.Context, key string) error {
	n.mu.Lock()
	delete(n.docs, key)
	n.mu.Unlock()
	return nil
}

func (n *Native) Close(context.Context) error { return nil }

// Len reports the number of cached documents.
func (n *Native) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.docs)
}
