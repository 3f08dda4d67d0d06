//go:build go1.21

// Package slog adapts a standard library *slog.Logger to the store's
// Logger interface.
package slog

import (
	"context"
	stdslog "log/slog"

	"github.com/LexiestLeszek/jasondb"
)

var _ jasondb.Logger = Logger{}

type Logger struct{ L *stdslog.Logger }

// Default wraps slog.Default.
func Default() Logger { return Logger{L: stdslog.Default()} }

func (s Logger) Debug(msg string, f jasondb.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelDebug, msg, attrs(f)...)
}
func (s Logger) Info(msg string, f jasondb.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelInfo, msg, attrs(f)...)
}
func (s Logger) Warn(msg string, f jasondb.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelWarn, msg, attrs(f)...)
}
func (s Logger) Error(msg string, f jasondb.Fields) {
	s.L.LogAttrs(context.Background(), stdslog.LevelError, msg, attrs(f)...)
}

func attrs(f jasondb.Fields) []stdslog.Attr {
	if len(f) == 0 {
		return nil
	}
	out := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		out = append(out, stdslog.Any(k, v))
	}
	return out
}
