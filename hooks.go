package jasondb

import "time"

// LoadSource tells where a loaded document came from.
type LoadSource string

const (
	// SourceCache: served straight from the cache.
	SourceCache LoadSource = "cache"
	// SourceBackend: read from the backend and decoded.
	SourceBackend LoadSource = "backend"
	// SourceDefault: key unseen (or stored as null); the document is the
	// default template.
	SourceDefault LoadSource = "default"
)

// Hooks are lightweight callbacks for high-signal store events.
// Implementations MUST be cheap and non-blocking; the store calls them
// under the per-key lock. Wrap with hooks/async when the sink is slow.
type Hooks interface {
	// A document was returned to a caller.
	DocumentLoaded(key string, source LoadSource, elapsed time.Duration)

	// A document was durably written and its cache entry replaced.
	DocumentSaved(key string, elapsed time.Duration)

	// The cache entry for key was dropped. reason is one of
	// "save_failed", "manual" or "watch".
	CacheInvalidated(key, reason string)

	// Stored bytes failed to decode. The caller gets a CorruptDataError;
	// the file and the cache are left as they were.
	CorruptDocument(key string, err error)

	// The backend failed an atomic write. Prior file state is intact.
	WriteFailed(key string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) DocumentLoaded(string, LoadSource, time.Duration) {}
func (NopHooks) DocumentSaved(string, time.Duration)              {}
func (NopHooks) CacheInvalidated(string, string)                  {}
func (NopHooks) CorruptDocument(string, error)                    {}
func (NopHooks) WriteFailed(string, error)                        {}
