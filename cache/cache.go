// Package cache defines the advisory document cache jasondb mirrors
// its backend with. The backend stays the source of truth: a cache may
// evict, reject or lose entries at any time, and every error degrades
// to a miss in the store. What a cache must never do is return a
// document different from the last one Set for that key.
//
// Ownership: the store passes Set a document it will never mutate, and
// treats documents from Get as read-only (callers receive deep copies
// made by the store). Implementations may therefore alias stored
// documents freely but must not mutate them either.
package cache

import "context"

// Document mirrors jasondb.Document.
type Document = map[string]any

// Cache holds the last-known-good document per key.
type Cache interface {
	// Get returns (doc, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) (Document, bool, error)

	// Set stores doc for key, replacing any prior entry. A rejected
	// write (eviction pressure) is not an error, but it must leave the
	// key absent rather than still holding an older document; store
	// coherency after a save depends on that.
	Set(ctx context.Context, key string, doc Document) error

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
