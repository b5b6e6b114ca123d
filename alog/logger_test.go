package alog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/racetrack-labs/paddock/alog"
)

const applicationMsg = "application message"

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("level info as default level", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := alog.New(alog.WithHandler(slog.NewTextHandler(buf, nil)))

		logger.Log(context.Background(), alog.LevelInfo, "paddock info")
		logger.Log(context.Background(), alog.LevelDebug, "paddock debug")
		logger.Debug("application debug")
		assert.Empty(t, buf.String())

		logger.Info(applicationMsg)
		assert.Contains(t, buf.String(), `msg="application message"`)
	})

	t.Run("set level", func(t *testing.T) {
		t.Parallel()

		logger := alog.New(alog.WithLevel(alog.LevelDebug))
		assert.Equal(t, alog.LevelDebug, alog.Unwrap(logger).Level())

		alog.Unwrap(logger).SetLevel(slog.LevelWarn)
		assert.Equal(t, slog.LevelWarn, alog.Unwrap(logger).Level())
	})

	t.Run("level is shared with derived loggers", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := alog.New(alog.WithHandler(slog.NewTextHandler(buf, nil)))
		derived := logger.With(slog.String("entity", "pilot"))

		alog.Unwrap(logger).SetLevel(slog.LevelDebug)
		derived.Debug(applicationMsg)

		assert.Contains(t, buf.String(), "entity=pilot")
	})

	t.Run("multiple handlers", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		logger := alog.New(
			alog.WithHandler(slog.NewTextHandler(buf, nil)),
			alog.WithHandler(slog.NewJSONHandler(buf, nil)),
		)
		logger.Info(applicationMsg)

		assert.Contains(t, buf.String(), `msg="application message"`)
		assert.Contains(t, buf.String(), `"msg":"application message"`)
	})
}

func TestMapLogLevelsToName(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := alog.NewTest(buf)

	logger.Log(context.Background(), alog.LevelInfo, applicationMsg)
	logger.Log(context.Background(), alog.LevelDebug, applicationMsg)

	assert.Contains(t, buf.String(), "level=PADDOCK:INFO")
	assert.Contains(t, buf.String(), "level=PADDOCK:DEBUG")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"paddock:debug": alog.LevelDebug,
		"paddock:info":  alog.LevelInfo,
		"debug":         slog.LevelDebug,
		"info":          slog.LevelInfo,
		"warn":          slog.LevelWarn,
		"error":         slog.LevelError,
		"unknown":       slog.LevelInfo,
	}

	for name, expected := range tests {
		assert.Equal(t, expected, alog.ParseLevel(name), name)
	}
}

func TestAddAttr(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := alog.NewTest(buf)

	ctx := alog.AddAttr(context.Background(), slog.String("requestID", "42"))
	ctx = alog.AddAttr(ctx, slog.String("entity", "team"))

	logger.InfoContext(ctx, applicationMsg)

	assert.Contains(t, buf.String(), "requestID=42")
	assert.Contains(t, buf.String(), "entity=team")

	attrs, ok := alog.FromContext(ctx)
	assert.True(t, ok)
	assert.Len(t, attrs, 2)
}

func TestTraceCorrelation(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := tp.Tracer("test").Start(context.Background(), "span")

	buf := &bytes.Buffer{}
	logger := alog.NewTest(buf)
	logger.ErrorContext(ctx, applicationMsg)
	span.End()

	assert.Contains(t, buf.String(), "traceID="+span.SpanContext().TraceID().String())
	assert.Contains(t, buf.String(), "spanID="+span.SpanContext().SpanID().String())

	ended := recorder.Ended()
	assert.Len(t, ended, 1)
	assert.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "log", ended[0].Events()[0].Name)
}

func TestNewNoop(t *testing.T) {
	t.Parallel()

	logger := alog.NewNoop()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	assert.Nil(t, alog.Unwrap(logger))
}

func TestTestLogger(t *testing.T) {
	t.Parallel()

	logger := alog.Test(t)
	logger.Empty()

	logger.Info(applicationMsg)
	logger.DebugContext(context.Background(), "second")

	logger.Total(2)
	logger.Contains(applicationMsg)
	logger.NotContains("third")
	assert.Len(t, logger.Lines(), 2)
}
