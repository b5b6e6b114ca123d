// Package alog wraps log/slog with the handler setup used across paddock.
//
// Every logger returned by this package correlates its records with the
// active OpenTelemetry span and adds the attributes stored in the context via AddAttr.
package alog

import (
	"context"
	"log/slog"
	"os"
)

// Logger is a subset of slog.Logger.
// It encourages the methods taking a context.Context, so records can be correlated with traces.
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
	LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

const (
	// LevelInfo is used to see what paddock is doing internally, e.g. which use case is called.
	LevelInfo = slog.Level(-8)

	// LevelDebug is the most verbose level and includes e.g. every SQL statement.
	LevelDebug = slog.Level(-12)
)

// MapLogLevelsToName replaces the default name of the custom levels with a readable one.
func MapLogLevelsToName(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey {
		return attr
	}

	level, _ := attr.Value.Any().(slog.Level)

	switch level {
	case LevelInfo:
		attr.Value = slog.StringValue("PADDOCK:INFO")
	case LevelDebug:
		attr.Value = slog.StringValue("PADDOCK:DEBUG")
	default:
		attr.Value = slog.StringValue(level.String())
	}

	return attr
}

// ParseLevel maps a configured level name to a slog.Level.
// Unknown names fall back to slog.LevelInfo.
func ParseLevel(name string) slog.Level {
	switch name {
	case "paddock:debug":
		return LevelDebug
	case "paddock:info":
		return LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoggerOpt allows to initialise a logger with custom options.
type LoggerOpt func(h *paddockHandler)

// WithHandler adds a slog.Handler to be logged to.
// The level of the given handler is ignored, WithLevel controls all handlers.
func WithHandler(h slog.Handler) LoggerOpt {
	return func(l *paddockHandler) {
		l.handlers = append(l.handlers, h)
	}
}

// WithLevel initialises the logger with a starting level.
// To change the level at run time use Unwrap(logger).SetLevel.
func WithLevel(level slog.Level) LoggerOpt {
	return func(l *paddockHandler) {
		l.level.Set(level)
	}
}

// New returns a production ready logger.
//
// If no handler is given via WithHandler, it logs JSON to os.Stderr.
func New(opts ...LoggerOpt) *slog.Logger {
	return slog.New(newPaddockHandler(opts...))
}

// NewDevelopment returns a logger for local development: human-readable text, debug level.
func NewDevelopment(opts ...LoggerOpt) *slog.Logger {
	return New(append([]LoggerOpt{
		WithLevel(slog.LevelDebug),
		WithHandler(slog.NewTextHandler(os.Stderr, getDebugHandlerOptions())),
	}, opts...)...)
}

func getDefaultHandlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource:   true,
		Level:       LevelDebug, // the paddockHandler filters, so let everything through
		ReplaceAttr: MapLogLevelsToName,
	}
}

// getDebugHandlerOptions keeps the output readable by dropping the source location.
func getDebugHandlerOptions() *slog.HandlerOptions {
	opt := getDefaultHandlerOptions()
	opt.AddSource = false

	return opt
}
