package alog

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// NewTest returns a logger writing human-readable text to w at the most verbose level.
// Use it in tests where the output is inspected directly.
func NewTest(w io.Writer) *slog.Logger {
	return New(
		WithLevel(LevelDebug),
		WithHandler(slog.NewTextHandler(w, getDebugHandlerOptions())),
	)
}

// Test returns a logger for unit testing, exposing assertions on the logged lines.
// The assertions follow stretchr/testify: each returns whether it succeeded.
func Test(t *testing.T) *TestLogger {
	t.Helper()

	buf := &lineBuffer{}

	return &TestLogger{
		Logger: NewTest(buf),
		t:      t,
		buf:    buf,
	}
}

// TestLogger can be injected wherever a Logger is expected.
type TestLogger struct {
	*slog.Logger

	t   *testing.T
	buf *lineBuffer
}

var (
	_ Logger          = (*TestLogger)(nil)
	_ LevelController = (*TestLogger)(nil)
)

func (l *TestLogger) SetLevel(level slog.Level) {
	Unwrap(l.Logger).SetLevel(level)
}

func (l *TestLogger) Level() slog.Level {
	return Unwrap(l.Logger).Level()
}

// String returns all logged lines.
func (l *TestLogger) String() string {
	return strings.Join(l.buf.all(), "")
}

func (l *TestLogger) Lines() []string {
	return l.buf.all()
}

// Empty asserts that nothing was logged.
func (l *TestLogger) Empty(msgAndArgs ...any) bool {
	l.t.Helper()

	if n := len(l.buf.all()); n > 0 {
		return assert.Fail(l.t, fmt.Sprintf("logger is not empty, it has %d line(s)", n), msgAndArgs...)
	}

	return true
}

// Contains asserts that at least one line contains s.
func (l *TestLogger) Contains(s string, msgAndArgs ...any) bool {
	l.t.Helper()

	for _, line := range l.buf.all() {
		if strings.Contains(line, s) {
			return true
		}
	}

	return assert.Fail(l.t, "log output does not have a line which contains: "+s, msgAndArgs...)
}

// NotContains asserts that no line contains s.
func (l *TestLogger) NotContains(s string, msgAndArgs ...any) bool {
	l.t.Helper()

	for _, line := range l.buf.all() {
		if strings.Contains(line, s) {
			return assert.Fail(l.t, "log output contains: "+s, msgAndArgs...)
		}
	}

	return true
}

// Total asserts that exactly total lines were logged.
func (l *TestLogger) Total(total int, msgAndArgs ...any) bool {
	l.t.Helper()

	if n := len(l.buf.all()); n != total {
		return assert.Fail(l.t, fmt.Sprintf("logger does not have %d lines, it has: %d", total, n), msgAndArgs...)
	}

	return true
}

// lineBuffer keeps every Write as its own line; slog writes one record per call.
type lineBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = append(b.lines, string(p))

	return len(p), nil
}

func (b *lineBuffer) all() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.lines...)
}
