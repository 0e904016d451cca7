package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/puppet/internal/core/ports"
)

// sink is the output state shared by a logger and everything derived with With.
type sink struct {
	mu       sync.RWMutex
	handler  slog.Handler
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
}

func (s *sink) rebuild() {
	opts := &slog.HandlerOptions{Level: s.level}
	if s.jsonMode {
		s.handler = slog.NewJSONHandler(s.output, opts)
		return
	}
	s.handler = NewPrettyHandler(s.output, opts)
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	sink  *sink
	attrs []any
}

// New creates a new Logger writing pretty output to stderr at info level.
func New() *Logger {
	s := &sink{level: &slog.LevelVar{}, output: os.Stderr}
	s.rebuild()
	return &Logger{sink: s}
}

// SetOutput updates the output destination, keeping the current mode.
// A nil writer means os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.sink.output = w
	l.sink.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	l.sink.jsonMode = enable
	l.sink.rebuild()
}

// SetLevel sets the minimum level of emitted records.
func (l *Logger) SetLevel(level domain.LogLevel) {
	l.sink.level.Set(slog.Level(level))
}

// With returns a logger attaching args to every record.
// It shares the output of its parent.
func (l *Logger) With(args ...any) ports.Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)
	return &Logger{sink: l.sink, attrs: attrs}
}

func (l *Logger) log(level slog.Level, msg string, args []any) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	lg := slog.New(l.sink.handler)
	if len(l.attrs) > 0 {
		lg = lg.With(l.attrs...)
	}
	lg.Log(context.Background(), level, msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args)
}

// Error logs an error with its chain of causes and their metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.sink.mu.RLock()
	jsonMode := l.sink.jsonMode
	l.sink.mu.RUnlock()

	if jsonMode {
		l.log(slog.LevelError, "operation failed", []any{"error", err.Error()})
		return
	}
	l.log(slog.LevelError, formatErrorEntries(collectErrorEntries(err)), nil)
}
