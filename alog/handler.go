package alog

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ slog.Handler = (*paddockHandler)(nil)

// paddockHandler fans a record out to all handlers.
// It does not write anything itself.
// Before handing the record on, it adds the trace and span ids and the context attributes,
// and records the log line as an event on the active span.
type paddockHandler struct {
	// level is shared between all handlers derived via WithAttrs or WithGroup,
	// so SetLevel changes every copy.
	level *slog.LevelVar

	handlers []slog.Handler
}

func newPaddockHandler(opts ...LoggerOpt) *paddockHandler {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)

	h := &paddockHandler{
		level:    level,
		handlers: []slog.Handler{},
	}

	for _, opt := range opts {
		opt(h)
	}

	if len(h.handlers) == 0 {
		h.handlers = []slog.Handler{slog.NewJSONHandler(os.Stderr, getDefaultHandlerOptions())}
	}

	return h
}

func (h *paddockHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *paddockHandler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)

	record = addTraceAndSpanIDs(span, record)

	if attrs, ok := FromContext(ctx); ok {
		record.AddAttrs(attrs...)
	}

	addRecordToSpan(span, record)

	var err error

	for _, handler := range h.handlers {
		err = errors.Join(err, handler.Handle(ctx, record))
	}

	return err
}

func (h *paddockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}

	return &paddockHandler{level: h.level, handlers: handlers}
}

func (h *paddockHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}

	return &paddockHandler{level: h.level, handlers: handlers}
}

func (h *paddockHandler) SetLevel(level slog.Level) {
	h.level.Set(level)
}

func (h *paddockHandler) Level() slog.Level {
	return h.level.Level()
}

func addTraceAndSpanIDs(span trace.Span, record slog.Record) slog.Record {
	sCtx := span.SpanContext()

	if sCtx.HasTraceID() {
		record.AddAttrs(slog.String("traceID", sCtx.TraceID().String()))
	}

	if sCtx.HasSpanID() {
		record.AddAttrs(slog.String("spanID", sCtx.SpanID().String()))
	}

	return record
}

func addRecordToSpan(span trace.Span, record slog.Record) {
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("log.severity", record.Level.String()),
		attribute.String("log.message", record.Message),
	}

	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, attribute.String(a.Key, a.Value.String()))
		return true
	})

	span.AddEvent("log", trace.WithAttributes(attrs...))

	if record.Level >= slog.LevelError {
		span.SetStatus(codes.Error, record.Message)
	}
}

// LevelController offers control over a logger at run time.
type LevelController interface {
	SetLevel(level slog.Level)
	Level() slog.Level
}

// Unwrap returns the LevelController of a logger created by this package.
// For any other logger it returns nil.
func Unwrap(logger Logger) LevelController { //nolint:ireturn // TestLogger and paddockHandler both qualify
	if l, ok := logger.(*TestLogger); ok {
		return l
	}

	sl, ok := logger.(*slog.Logger)
	if !ok {
		return nil
	}

	if h, ok := sl.Handler().(*paddockHandler); ok {
		return h
	}

	return nil
}
