package logging

import (
	"io"
	"log/slog"
	"testing"
)

// LevelFromVerbosity maps a -v count to a level: 0 is warn, 1 info,
// 2 or more debug.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// New returns a logger writing to out at level.
func New(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(out, &slog.HandlerOptions{Level: level}))
}

// NewDiscard returns a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	msg := string(p)
	if n := len(msg); n > 0 && msg[n-1] == '\n' {
		msg = msg[:n-1]
	}
	w.t.Log(msg)
	return len(p), nil
}

// ForTest returns a debug-level logger that writes through t.Log.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(&testWriter{t: t}, slog.LevelDebug)
}
