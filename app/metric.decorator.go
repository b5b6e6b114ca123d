package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "paddock.application"

// useCaseMeter records one counter increment and one duration sample per call.
type useCaseMeter struct {
	name     string
	counter  metric.Int64Counter
	duration metric.Float64Histogram
}

func newUseCaseMeter(meterProvider metric.MeterProvider, name string) useCaseMeter {
	meter := meterProvider.Meter(instrumentationName)

	// errors are ignored: the noop instruments returned alongside keep the use case working
	counter, _ := meter.Int64Counter("usecases", metric.WithDescription("number of executed use cases"))
	duration, _ := meter.Float64Histogram("usecases_duration_seconds",
		metric.WithDescription("duration of executed use cases"),
		metric.WithUnit("s"),
	)

	return useCaseMeter{name: name, counter: counter, duration: duration}
}

func (m useCaseMeter) record(ctx context.Context, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	opt := metric.WithAttributes(
		attribute.String("usecase", m.name),
		attribute.String("status", status),
	)

	m.counter.Add(ctx, 1, opt)
	m.duration.Record(ctx, time.Since(start).Seconds(), opt)
}

func NewMeteredRequest[Req any, Res any](meterProvider metric.MeterProvider, name string, req Request[Req, Res]) Request[Req, Res] {
	return &requestMeteringDecorator[Req, Res]{meter: newUseCaseMeter(meterProvider, name), base: req}
}

type requestMeteringDecorator[Req any, Res any] struct {
	meter useCaseMeter
	base  Request[Req, Res]
}

func (d *requestMeteringDecorator[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn,lll // valid use of generics
	start := time.Now()

	result, err := d.base.H(ctx, req)
	d.meter.record(ctx, start, err)

	return result, err //nolint:wrapcheck // decorate but not change anything
}

func NewMeteredCommand[C any](meterProvider metric.MeterProvider, name string, cmd Command[C]) Command[C] {
	return &commandMeteringDecorator[C]{meter: newUseCaseMeter(meterProvider, name), base: cmd}
}

type commandMeteringDecorator[C any] struct {
	meter useCaseMeter
	base  Command[C]
}

func (d *commandMeteringDecorator[C]) H(ctx context.Context, cmd C) error {
	start := time.Now()

	err := d.base.H(ctx, cmd)
	d.meter.record(ctx, start, err)

	return err //nolint:wrapcheck // decorate but not change anything
}

func NewMeteredQuery[Q any, Res any](meterProvider metric.MeterProvider, name string, query Query[Q, Res]) Query[Q, Res] {
	return &queryMeteringDecorator[Q, Res]{meter: newUseCaseMeter(meterProvider, name), base: query}
}

type queryMeteringDecorator[Q any, Res any] struct {
	meter useCaseMeter
	base  Query[Q, Res]
}

func (d *queryMeteringDecorator[Q, Res]) H(ctx context.Context, query Q) (Res, error) { //nolint:ireturn,lll // valid use of generics
	start := time.Now()

	result, err := d.base.H(ctx, query)
	d.meter.record(ctx, start, err)

	return result, err //nolint:wrapcheck // decorate but not change anything
}
