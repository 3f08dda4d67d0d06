package slogh

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/LexiestLeszek/jasondb"
)

func newBufLogger(lvl slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: lvl})), &buf
}

func TestRedactsKeysByDefault(t *testing.T) {
	l, buf := newBufLogger(slog.LevelError)
	h := New(l, Options{})

	h.CorruptDocument("user-secret-42", nil)

	out := buf.String()
	if strings.Contains(out, "user-secret-42") {
		t.Fatalf("raw key leaked into log: %s", out)
	}
	if !strings.Contains(out, "jasondb.corrupt_document") {
		t.Fatalf("event missing: %s", out)
	}
}

func TestRedactOverride(t *testing.T) {
	l, buf := newBufLogger(slog.LevelDebug)
	h := New(l, Options{Redact: func(k string) string { return k }})

	h.DocumentSaved("u1", time.Millisecond)

	if !strings.Contains(buf.String(), "key=u1") {
		t.Fatalf("redact override ignored: %s", buf.String())
	}
}

func TestSampling(t *testing.T) {
	l, buf := newBufLogger(slog.LevelDebug)
	h := New(l, Options{LoadEvery: 10})

	for i := 0; i < 100; i++ {
		h.DocumentLoaded("u1", jasondb.SourceCache, 0)
	}

	if got := strings.Count(buf.String(), "jasondb.document_loaded"); got != 10 {
		t.Fatalf("logged %d of 100 loads, want 10", got)
	}
}

func TestErrorsNeverSampled(t *testing.T) {
	l, buf := newBufLogger(slog.LevelError)
	h := New(l, Options{LoadEvery: 1000, SaveEvery: 1000})

	for i := 0; i < 5; i++ {
		h.WriteFailed("u1", nil)
	}

	if got := strings.Count(buf.String(), "jasondb.write_failed"); got != 5 {
		t.Fatalf("logged %d of 5 write failures, want 5", got)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.DocumentLoaded("u1", jasondb.SourceBackend, 0)
	h.DocumentSaved("u1", 0)
	h.CacheInvalidated("u1", "manual")
	h.CorruptDocument("u1", nil)
	h.WriteFailed("u1", nil)
}
