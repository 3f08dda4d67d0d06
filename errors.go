package jasondb

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey marks keys unusable as storage identifiers. Returned
	// (wrapped with detail) before any locking or I/O happens.
	ErrInvalidKey = errors.New("jasondb: invalid key")

	// ErrInvalidTemplate marks a default template the configured codec
	// cannot encode. Returned by New; the store is never constructed.
	ErrInvalidTemplate = errors.New("jasondb: invalid default template")

	// ErrNilDocument marks a Save call with a nil document. Rejected as
	// caller input, like an invalid key; nothing is written.
	ErrNilDocument = errors.New("jasondb: nil document")

	// ErrStoreClosed marks operations on a closed store.
	ErrStoreClosed = errors.New("jasondb: store is closed")
)

// CorruptDataError reports stored bytes that no longer decode into a
// document. The cache is left untouched so the bad bytes are never
// served; the file keeps its content for inspection.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt document %q: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// WriteError reports a failed Save. Op names the stage that failed,
// "encode" or "write". Whatever the stage, the on-disk document is
// unchanged from before the attempt and the cache entry for Key has
// been dropped, so the next Load re-reads the backend.
type WriteError struct {
	Key string
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("save %q: %s failed: %v", e.Key, e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
