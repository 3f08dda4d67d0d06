// Package mem keeps documents in process memory. Useful for tests and
// for ephemeral stores whose contents may vanish with the process.
package mem

import (
	"context"
	"sync"
)

// Backend is a mutex-guarded map of stored documents. Replacement is
// trivially atomic: a map assignment swaps the whole value.
type Backend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func New() *Backend {
	return &Backend{docs: make(map[string][]byte)}
}

func (b *Backend) Read(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	data, ok := b.docs[key]
	b.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (b *Backend) WriteAtomic(_ context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)
	b.mu.Lock()
	b.docs[key] = stored
	b.mu.Unlock()
	return nil
}

func (b *Backend) Close(context.Context) error { return nil }

// Len reports how many documents are stored.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.docs)
}
