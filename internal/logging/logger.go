// Package logging provides a common interface and setup for application-wide logging.
package logging

// file: internal/logging/logger.go

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Level is an application-level logging severity, kept distinct from slog's
// own Level type so config parsing (debug/info/warning/error) doesn't leak
// the logging backend into the rest of the codebase.
type Level int

// Logging levels, ordered low to high severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseLevel maps a config string to a Level. Unrecognized values fall back to Info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Format selects the on-disk/stderr encoding for log lines.
type Format int

// Supported encodings.
const (
	FormatJSON Format = iota
	FormatText
)

// ParseFormat maps a config string to a Format. Unrecognized values fall back to JSON.
func ParseFormat(s string) Format {
	if s == "text" {
		return FormatText
	}
	return FormatJSON
}

// Logger defines the interface for logging within the application.
// This abstraction allows for different logger implementations while
// maintaining consistent logging conventions throughout the codebase.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, args ...any)

	// Info logs an info-level message.
	Info(msg string, args ...any)

	// Warn logs a warning-level message.
	Warn(msg string, args ...any)

	// Error logs an error-level message.
	Error(msg string, args ...any)

	// WithContext returns a logger with context values.
	WithContext(ctx context.Context) Logger

	// WithField returns a logger with an additional field.
	WithField(key string, value any) Logger
}

// NoopLogger implements Logger but does nothing.
// Used as a fallback when no logger is provided.
type NoopLogger struct{}

// Debug implements Logger but performs no action.
func (l *NoopLogger) Debug(_ string, _ ...any) {}

// Info implements Logger but performs no action.
func (l *NoopLogger) Info(_ string, _ ...any) {}

// Warn implements Logger but performs no action.
func (l *NoopLogger) Warn(_ string, _ ...any) {}

// Error implements Logger but performs no action.
func (l *NoopLogger) Error(_ string, _ ...any) {}

// WithContext implements Logger, returning the NoopLogger itself.
func (l *NoopLogger) WithContext(_ context.Context) Logger { return l }

// WithField implements Logger, returning the NoopLogger itself.
func (l *NoopLogger) WithField(_ string, _ any) Logger { return l }

// Global singleton instance of NoopLogger.
var noop = &NoopLogger{}

// GetNoopLogger returns the no-op logger instance.
func GetNoopLogger() Logger {
	return noop
}

// levelVar backs the dynamic, process-wide minimum log level.
var levelVar = new(slog.LevelVar)

// defaultHandler is rebuilt by InitLogging; it starts pointed at stderr so
// packages that log before setup still produce output.
var defaultHandler slog.Handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar})

// InitLogging configures the process-wide logging backend. w receives every
// line at or above level, encoded per format (defaults to FormatJSON when
// omitted). Call once at startup, before any GetLogger callers start emitting.
func InitLogging(level Level, w io.Writer, format ...Format) {
	levelVar.Set(level.slogLevel())
	f := FormatJSON
	if len(format) > 0 {
		f = format[0]
	}
	opts := &slog.HandlerOptions{Level: levelVar}
	switch f {
	case FormatText:
		defaultHandler = slog.NewTextHandler(w, opts)
	default:
		defaultHandler = slog.NewJSONHandler(w, opts)
	}
}

// SetLevel adjusts the minimum level of the already-configured backend.
func SetLevel(level Level) {
	levelVar.Set(level.slogLevel())
}

// IsDebugEnabled reports whether debug-level messages are currently emitted.
func IsDebugEnabled() bool {
	return levelVar.Level() <= slog.LevelDebug
}

// slogLogger implements Logger on top of log/slog.
type slogLogger struct {
	l *slog.Logger
}

func newSlogLogger(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) WithContext(_ context.Context) Logger {
	// No context-scoped values are threaded through slog handlers here;
	// kept as a seam so request-scoped fields can be added later without
	// changing the Logger interface.
	return s
}

func (s *slogLogger) WithField(key string, value any) Logger {
	return newSlogLogger(s.l.With(key, value))
}

// GetLogger returns a logger scoped to the named component, backed by the
// process-wide slog handler configured via InitLogging.
func GetLogger(name string) Logger {
	return newSlogLogger(slog.New(defaultHandler).With("component", name))
}
