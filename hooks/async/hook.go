// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/LexiestLeszek/jasondb"
//	"github.com/LexiestLeszek/jasondb/hooks/async"
//	"github.com/LexiestLeszek/jasondb/hooks/slogh"
//
// )
//
//	raw := slogh.New(slog.Default(), slogh.Options{
//	    LoadEvery:       100, // sample logs: ~every 100th load
//	    InvalidateEvery: 1,   // log every invalidation
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	store, _ := jasondb.New(jasondb.Options{
//	    Dir:      "./data",
//	    Defaults: jasondb.Document{"version": float64(1)},
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"time"

	"github.com/LexiestLeszek/jasondb"
)

type Hooks struct {
	inner jasondb.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ jasondb.Hooks = (*Hooks)(nil)

func New(inner jasondb.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) DocumentLoaded(k string, src jasondb.LoadSource, d time.Duration) {
	h.try(func() { h.inner.DocumentLoaded(k, src, d) })
}

func (h *Hooks) DocumentSaved(k string, d time.Duration) {
	h.try(func() { h.inner.DocumentSaved(k, d) })
}

func (h *Hooks) CacheInvalidated(k, reason string) {
	h.try(func() { h.inner.CacheInvalidated(k, reason) })
}

func (h *Hooks) CorruptDocument(k string, err error) {
	h.try(func() { h.inner.CorruptDocument(k, err) })
}

func (h *Hooks) WriteFailed(k string, err error) {
	h.try(func() { h.inner.WriteFailed(k, err) })
}
