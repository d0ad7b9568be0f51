// Package logging provides the small Logger abstraction shared by the
// calculator, the journal and the configuration watcher.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger receives diagnostic output.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

// writerLogger writes to an io.Writer
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.w, formatLogValues(values...))
}

func (l *writerLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, formatLogValues(values...))
}

// WriterLogger returns a logger that writes to an io.Writer
func WriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// BufferedLogger captures log output for later retrieval
type BufferedLogger struct {
	mu    sync.Mutex
	lines []string
	buf   strings.Builder
}

// NewBufferedLogger creates a new buffered logger
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{
		lines: make([]string, 0),
	}
}

func (l *BufferedLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(formatLogValues(values...))
}

func (l *BufferedLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	// Flush any pending buffer content as a line
	line := l.buf.String() + formatLogValues(values...)
	l.lines = append(l.lines, line)
	l.buf.Reset()
}

// String returns all captured output as a single string
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := strings.Join(l.lines, "\n")
	if len(l.lines) > 0 {
		result += "\n"
	}
	if l.buf.Len() > 0 {
		result += l.buf.String()
	}
	return result
}

// Lines returns a copy of all captured log lines
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]string, len(l.lines))
	copy(result, l.lines)
	return result
}

// Reset clears all captured output
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = l.lines[:0]
	l.buf.Reset()
}

type nullLogger struct{}

func (nullLogger) Log(values ...any)     {}
func (nullLogger) LogLine(values ...any) {}

// NullLogger returns a logger that discards all output
func NullLogger() Logger {
	return nullLogger{}
}

// Open returns a logger for a configured output: "stderr" (or empty),
// "stdout", "none", or a file path opened for appending. The returned
// closer is a no-op for the standard streams.
func Open(output string) (Logger, io.Closer, error) {
	switch output {
	case "", "stderr":
		return WriterLogger(os.Stderr), nopCloser{}, nil
	case "stdout":
		return WriterLogger(os.Stdout), nopCloser{}, nil
	case "none":
		return NullLogger(), nopCloser{}, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return WriterLogger(f), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func formatLogValues(values ...any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
