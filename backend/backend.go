// Package backend defines the persistence abstraction for jasondb.
//
// Implementations MUST be byte-for-byte transparent: Read must return
// exactly the same []byte that was previously passed to WriteAtomic for
// a key (no prepended/appended metadata, no re-encoding, no mutation).
// The stored bytes ARE the document in its serialized form; anything a
// backend adds would leak into files other tools read.
//
// The store calls a backend only while holding that key's lock, so an
// implementation never sees two concurrent writes for one key. Reads
// and writes for different keys do run concurrently.
package backend

import "context"

// Backend is a minimal per-key byte store with atomic replacement.
type Backend interface {
	// Read returns (data, true, nil) when a document exists for key and
	// (nil, false, nil) when none does. Absence is an expected outcome,
	// not an error; errors are for I/O and transport failures only.
	Read(ctx context.Context, key string) ([]byte, bool, error)

	// WriteAtomic durably replaces the document for key with data.
	// Observers see either the prior complete document or the new one,
	// never a partial state. On error the prior document is intact and
	// any intermediate artifact has been cleaned up.
	WriteAtomic(ctx context.Context, key string, data []byte) error

	// Close releases resources.
	Close(ctx context.Context) error
}
