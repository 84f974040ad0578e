// Package testutil provides log capture and input fixtures for tests.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is a captured log record
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// logStore is shared by a capture handler and the handlers derived from it
type logStore struct {
	mu      sync.Mutex
	records []LogRecord
}

// LogCapture is an slog.Handler that records every log record for assertions
type LogCapture struct {
	store *logStore
	attrs []slog.Attr
	group string
	t     *testing.T
}

// NewLogCapture creates a capture handler; records are echoed to t's log when t is not nil
func NewLogCapture(t *testing.T) *LogCapture {
	return &LogCapture{store: &logStore{}, t: t}
}

// NewTestLogger creates a logger writing into a new capture handler
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	capture := NewLogCapture(t)
	return slog.New(capture), capture
}

// Enabled implements slog.Handler; every level is captured
func (h *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler
func (h *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[h.key(a.Key)] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	h.store.mu.Lock()
	h.store.records = append(h.store.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.store.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler
func (h *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler
func (h *LogCapture) WithGroup(name string) slog.Handler {
	clone := *h
	clone.group = h.key(name)
	return &clone
}

func (h *LogCapture) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// Records returns a copy of the captured records
func (h *LogCapture) Records() []LogRecord {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	out := make([]LogRecord, len(h.store.records))
	copy(out, h.store.records)
	return out
}

// Find returns the first record at level whose message contains message
func (h *LogCapture) Find(level slog.Level, message string) (LogRecord, bool) {
	for _, r := range h.Records() {
		if r.Level == level && strings.Contains(r.Message, message) {
			return r, true
		}
	}
	return LogRecord{}, false
}

// Count returns the number of captured records at level
func (h *LogCapture) Count(level slog.Level) int {
	n := 0
	for _, r := range h.Records() {
		if r.Level == level {
			n++
		}
	}
	return n
}

// AssertLogged fails t unless a record at level contains message
func AssertLogged(t *testing.T, h *LogCapture, level slog.Level, message string) LogRecord {
	t.Helper()
	r, ok := h.Find(level, message)
	if !ok {
		t.Errorf("expected %s log containing %q", level, message)
		for _, rec := range h.Records() {
			t.Logf("  - [%s] %s %v", rec.Level, rec.Message, rec.Attrs)
		}
	}
	return r
}

// AssertNoErrors fails t if any error-level record was captured
func AssertNoErrors(t *testing.T, h *LogCapture) {
	t.Helper()
	for _, r := range h.Records() {
		if r.Level >= slog.LevelError {
			t.Errorf("unexpected error log: %s %v", r.Message, r.Attrs)
		}
	}
}
