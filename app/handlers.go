// Package app provides the decorators wrapped around every use case of the application layer.
//
// A use case is anything with an H method. The decorators add logging, tracing, metrics,
// validation, and transactions without the use case knowing about them.
// Each decorator takes the use case's name, e.g. "racing.team.FindByID",
// because the request types of generic use cases (plain ids or entities) do not name the operation.
package app

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/racetrack-labs/paddock/alog"
)

// Request can produce side effects and return data.
type Request[Req any, Res any] interface {
	H(ctx context.Context, req Req) (Res, error)
}

// Command produces side effects, e.g. mutate state.
type Command[C any] interface {
	H(ctx context.Context, cmd C) error
}

// Query does not produce side effects and returns data.
type Query[Q any, Res any] interface {
	H(ctx context.Context, query Q) (Res, error)
}

// RequestFunc adapts a function to a Request.
type RequestFunc[Req any, Res any] func(ctx context.Context, req Req) (Res, error)

func (f RequestFunc[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn // valid use of generics
	return f(ctx, req)
}

// CommandFunc adapts a function to a Command.
type CommandFunc[C any] func(ctx context.Context, cmd C) error

func (f CommandFunc[C]) H(ctx context.Context, cmd C) error {
	return f(ctx, cmd)
}

// QueryFunc adapts a function to a Query.
type QueryFunc[Q any, Res any] func(ctx context.Context, query Q) (Res, error)

func (f QueryFunc[Q, Res]) H(ctx context.Context, query Q) (Res, error) { //nolint:ireturn // valid use of generics
	return f(ctx, query)
}

// Instrumentation bundles the dependencies of the instrumenting decorators.
type Instrumentation struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Logger         alog.Logger
}

// NewInstrumentedRequest is a convenience helper for easy dependency setup.
// The order of decorators represents the order of calling: trace, meter, log.
func NewInstrumentedRequest[Req any, Res any](in Instrumentation, name string, req Request[Req, Res]) Request[Req, Res] {
	return NewTracedRequest(in.TracerProvider, name,
		NewMeteredRequest(in.MeterProvider, name,
			NewLoggedRequest(in.Logger, name, req)))
}

// NewInstrumentedCommand is a convenience helper for easy dependency setup.
func NewInstrumentedCommand[C any](in Instrumentation, name string, cmd Command[C]) Command[C] {
	return NewTracedCommand(in.TracerProvider, name,
		NewMeteredCommand(in.MeterProvider, name,
			NewLoggedCommand(in.Logger, name, cmd)))
}

// NewInstrumentedQuery is a convenience helper for easy dependency setup.
func NewInstrumentedQuery[Q any, Res any](in Instrumentation, name string, query Query[Q, Res]) Query[Q, Res] {
	return NewTracedQuery(in.TracerProvider, name,
		NewMeteredQuery(in.MeterProvider, name,
			NewLoggedQuery(in.Logger, name, query)))
}
