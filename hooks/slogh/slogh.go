// Package slogh emits store hook events through log/slog.
//
// Keys are entity identifiers and routinely carry user IDs, so they
// are redacted to a SHA-256 prefix unless Options.Redact says
// otherwise.
package slogh

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/LexiestLeszek/jasondb"
)

type Options struct {
	// Sampling to avoid floods on the hot events; 0/1 = log all.
	LoadEvery       uint64
	SaveEvery       uint64
	InvalidateEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	loadCtr       atomic.Uint64
	saveCtr       atomic.Uint64
	invalidateCtr atomic.Uint64
}

var _ jasondb.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) DocumentLoaded(key string, source jasondb.LoadSource, elapsed time.Duration) {
	if h.l == nil || !sample(h.opts.LoadEvery, &h.loadCtr) {
		return
	}
	h.l.Debug("jasondb.document_loaded",
		"key", h.redact(key),
		"source", string(source),
		"elapsed", elapsed)
}

func (h *Hooks) DocumentSaved(key string, elapsed time.Duration) {
	if h.l == nil || !sample(h.opts.SaveEvery, &h.saveCtr) {
		return
	}
	h.l.Debug("jasondb.document_saved",
		"key", h.redact(key),
		"elapsed", elapsed)
}

func (h *Hooks) CacheInvalidated(key, reason string) {
	if h.l == nil || !sample(h.opts.InvalidateEvery, &h.invalidateCtr) {
		return
	}
	h.l.Info("jasondb.cache_invalidated",
		"key", h.redact(key),
		"reason", reason)
}

// Corrupt documents and failed writes are never sampled; each one is
// an operator-visible incident.

func (h *Hooks) CorruptDocument(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("jasondb.corrupt_document",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) WriteFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("jasondb.write_failed",
		"key", h.redact(key),
		"err", err)
}
