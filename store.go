package jasondb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LexiestLeszek/jasondb/backend"
	"github.com/LexiestLeszek/jasondb/backend/fsdir"
	"github.com/LexiestLeszek/jasondb/cache"
	"github.com/LexiestLeszek/jasondb/codec"
	"github.com/LexiestLeszek/jasondb/internal/keymutex"
)

type store struct {
	backend  backend.Backend
	codec    codec.Codec
	cache    cache.Cache
	log      Logger
	hooks    Hooks
	defaults Document // owned copy, read-only after construction

	cacheOn bool
	locks   *keymutex.Registry
	closed  atomic.Bool

	watcher *fsnotify.Watcher
	watchWg sync.WaitGroup
}

func newStore(opts Options) (*store, error) {
	if opts.Backend == nil && opts.Dir == "" {
		return nil, fmt.Errorf("jasondb: dir or backend is required")
	}
	if opts.Defaults == nil {
		return nil, fmt.Errorf("jasondb: defaults is required")
	}

	s := &store{
		cacheOn: !opts.DisableCache,
		locks:   keymutex.NewRegistry(),
	}
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	s.codec = opts.Codec
	if s.codec == nil {
		s.codec = codec.NewJSON(opts.PrettyPrint)
	}

	// The template must survive a trip through the codec; catching that
	// here turns a deferred per-load surprise into a construction error.
	// The copy makes the template immune to later caller mutation.
	s.defaults = Clone(opts.Defaults)
	if _, err := s.codec.Encode(s.defaults); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	s.backend = opts.Backend
	if s.backend == nil {
		b, err := fsdir.New(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("jasondb: failed to open storage root: %w", err)
		}
		s.backend = b
	}

	if s.cacheOn {
		s.cache = opts.Cache
		if s.cache == nil {
			s.cache = cache.NewNative(0)
		}
	}

	if opts.WatchFS {
		if err := s.startWatch(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *store) Load(ctx context.Context, key string) (Document, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	start := time.Now()

	mu := s.locks.Get(key)
	if err := mu.Lock(ctx); err != nil {
		return nil, err
	}
	defer mu.Unlock()

	if s.cacheOn {
		if doc, ok := s.cacheGet(ctx, key); ok {
			s.hooks.DocumentLoaded(key, SourceCache, time.Since(start))
			return Clone(doc), nil
		}
	}

	source := SourceBackend
	raw, ok, err := s.backend.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("jasondb: failed to read %q: %w", key, err)
	}

	var doc Document
	switch {
	case !ok:
		source = SourceDefault
		doc = Document{}
	default:
		doc, err = s.codec.Decode(raw)
		if err != nil {
			s.hooks.CorruptDocument(key, err)
			return nil, &CorruptDataError{Key: key, Err: err}
		}
		if doc == nil {
			// A stored literal null decodes without error. First use,
			// not corruption.
			source = SourceDefault
			doc = Document{}
		}
	}

	merged := Merge(doc, s.defaults)
	if s.cacheOn {
		s.cacheSet(ctx, key, merged)
		s.hooks.DocumentLoaded(key, source, time.Since(start))
		return Clone(merged), nil
	}
	s.hooks.DocumentLoaded(key, source, time.Since(start))
	return merged, nil
}

func (s *store) Save(ctx context.Context, key string, doc Document) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}
	start := time.Now()

	mu := s.locks.Get(key)
	if err := mu.Lock(ctx); err != nil {
		return err
	}
	defer mu.Unlock()

	raw, err := s.codec.Encode(doc)
	if err != nil {
		s.cacheDrop(ctx, key, "save_failed")
		return &WriteError{Key: key, Op: "encode", Err: err}
	}
	if err := s.backend.WriteAtomic(ctx, key, raw); err != nil {
		s.cacheDrop(ctx, key, "save_failed")
		s.hooks.WriteFailed(key, err)
		return &WriteError{Key: key, Op: "write", Err: err}
	}

	if s.cacheOn {
		// The cache holds the completed view, the same document a load
		// of the file just written would produce. Cache hits and disk
		// reads must be indistinguishable to callers.
		s.cacheSet(ctx, key, Merge(Clone(doc), s.defaults))
	}
	s.hooks.DocumentSaved(key, time.Since(start))
	return nil
}

func (s *store) Invalidate(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if !s.cacheOn {
		return nil
	}

	mu := s.locks.Get(key)
	if err := mu.Lock(ctx); err != nil {
		return err
	}
	defer mu.Unlock()

	if err := s.cache.Del(ctx, key); err != nil {
		return fmt.Errorf("jasondb: failed to invalidate %q: %w", key, err)
	}
	s.hooks.CacheInvalidated(key, "manual")
	return nil
}

func (s *store) Close(ctx context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	s.stopWatch()

	var errs []error
	if s.cache != nil {
		if err := s.cache.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}
	if err := s.backend.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to close backend: %w", err))
	}
	return errors.Join(errs...)
}

// cacheGet treats every cache error as a miss. The backend is the
// source of truth; a sick cache only costs reads.
func (s *store) cacheGet(ctx context.Context, key string) (Document, bool) {
	doc, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache get failed; treating as miss", Fields{"key": key, "err": err.Error()})
		return nil, false
	}
	return doc, ok
}

// cacheSet stores doc, which the store hands over for good (never
// mutated afterwards). A failed Set may leave an older entry behind,
// so the key is dropped to keep the cache coherent with the backend.
func (s *store) cacheSet(ctx context.Context, key string, doc Document) {
	if err := s.cache.Set(ctx, key, doc); err != nil {
		if derr := s.cache.Del(ctx, key); derr != nil {
			s.log.Error("cache set and delete failed; entry may be stale",
				Fields{"key": key, "set_err": err.Error(), "del_err": derr.Error()})
			return
		}
		s.log.Warn("cache set failed; entry dropped", Fields{"key": key, "err": err.Error()})
	}
}

func (s *store) cacheDrop(ctx context.Context, key, reason string) {
	if !s.cacheOn {
		return
	}
	if err := s.cache.Del(ctx, key); err != nil {
		s.log.Error("cache delete failed; entry may be stale",
			Fields{"key": key, "reason": reason, "err": err.Error()})
	}
	s.hooks.CacheInvalidated(key, reason)
}
