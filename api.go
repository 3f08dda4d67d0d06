package jasondb

import (
	"context"

	"github.com/LexiestLeszek/jasondb/backend"
	"github.com/LexiestLeszek/jasondb/cache"
	"github.com/LexiestLeszek/jasondb/codec"
)

// Store is the per-entity document API. Each key owns exactly one
// document; Load and Save are the only data operations. Operations on
// one key are totally ordered; operations on different keys run in
// parallel.
type Store interface {
	// Load returns the document for key, completed against the default
	// template. An unseen key yields the template itself. The result is
	// a deep copy the caller may mutate freely.
	Load(ctx context.Context, key string) (Document, error)

	// Save durably replaces the document for key. On any failure the
	// prior on-disk document is intact and the cache entry for key has
	// been dropped, never left stale.
	Save(ctx context.Context, key string, doc Document) error

	// Invalidate drops the cache entry for key so the next Load re-reads
	// the backend. For callers that edit the storage root out-of-band.
	Invalidate(ctx context.Context, key string) error

	// Close releases the cache, backend and watcher. The store rejects
	// every operation afterwards with ErrStoreClosed.
	Close(ctx context.Context) error
}

// Options tune the store.
// Only Defaults plus one of Dir or Backend are required; everything
// else has working defaults.
type Options struct {
	// Required
	Dir      string   // storage root; ignored when Backend is set
	Defaults Document // canonical shape every loaded document is completed with

	PrettyPrint bool // indent files written by the default JSON codec

	Backend      backend.Backend // nil => fsdir over Dir
	Codec        codec.Codec     // nil => JSON, indented iff PrettyPrint
	Cache        cache.Cache     // nil => in-process map cache
	DisableCache bool            // serve every Load from the backend
	WatchFS      bool            // invalidate cache entries when files change on disk
	Logger       Logger          // if nil, NopLogger is used
	Hooks        Hooks           // if nil, NopHooks is used
}

func New(opts Options) (Store, error) {
	return newStore(opts)
}
