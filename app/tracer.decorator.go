package app

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func startUseCaseSpan(ctx context.Context, tracer trace.Tracer, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "usecase", trace.WithAttributes(attribute.String("usecase", name))) //nolint:spancheck // ended by caller
}

func endUseCaseSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

func NewTracedRequest[Req any, Res any](traceProvider trace.TracerProvider, name string, req Request[Req, Res]) Request[Req, Res] {
	return &requestTracingDecorator[Req, Res]{
		tracer: traceProvider.Tracer(instrumentationName),
		name:   name,
		base:   req,
	}
}

type requestTracingDecorator[Req any, Res any] struct {
	tracer trace.Tracer
	name   string
	base   Request[Req, Res]
}

func (d *requestTracingDecorator[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn,lll // valid use of generics
	newCtx, span := startUseCaseSpan(ctx, d.tracer, d.name)

	result, err := d.base.H(newCtx, req)
	endUseCaseSpan(span, err)

	return result, err //nolint:wrapcheck // decorate but not change anything
}

func NewTracedCommand[C any](traceProvider trace.TracerProvider, name string, cmd Command[C]) Command[C] {
	return &commandTracingDecorator[C]{
		tracer: traceProvider.Tracer(instrumentationName),
		name:   name,
		base:   cmd,
	}
}

type commandTracingDecorator[C any] struct {
	tracer trace.Tracer
	name   string
	base   Command[C]
}

func (d *commandTracingDecorator[C]) H(ctx context.Context, cmd C) error {
	newCtx, span := startUseCaseSpan(ctx, d.tracer, d.name)

	err := d.base.H(newCtx, cmd)
	endUseCaseSpan(span, err)

	return err //nolint:wrapcheck // decorate but not change anything
}

func NewTracedQuery[Q any, Res any](traceProvider trace.TracerProvider, name string, query Query[Q, Res]) Query[Q, Res] {
	return &queryTracingDecorator[Q, Res]{
		tracer: traceProvider.Tracer(instrumentationName),
		name:   name,
		base:   query,
	}
}

type queryTracingDecorator[Q any, Res any] struct {
	tracer trace.Tracer
	name   string
	base   Query[Q, Res]
}

func (d *queryTracingDecorator[Q, Res]) H(ctx context.Context, query Q) (Res, error) { //nolint:ireturn,lll // valid use of generics
	newCtx, span := startUseCaseSpan(ctx, d.tracer, d.name)

	result, err := d.base.H(newCtx, query)
	endUseCaseSpan(span, err)

	return result, err //nolint:wrapcheck // decorate but not change anything
}
