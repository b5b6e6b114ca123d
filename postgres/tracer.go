package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ctx2 "github.com/racetrack-labs/paddock/ctx"
)

const spanKey ctx2.CTXKey = "paddock.pgx.span"

var _ pgx.QueryTracer = (*pgxTraceAdapter)(nil)

// pgxTraceAdapter starts a span for each query and ends it once the query returns.
type pgxTraceAdapter struct {
	tracer trace.Tracer
}

func (p *pgxTraceAdapter) TraceQueryStart(
	ctx context.Context,
	conn *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	ctx, span := p.tracer.Start(ctx, "pgx", trace.WithAttributes(
		attribute.String("db_host", conn.Config().Host),
		attribute.Int("db_port", int(conn.Config().Port)),
		attribute.String("db_database", conn.Config().Database),
		attribute.String("sql", data.SQL),
		attribute.StringSlice("sql_args", argsToStrings(data.Args)),
	))

	return context.WithValue(ctx, spanKey, span)
}

func (p *pgxTraceAdapter) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(spanKey).(trace.Span)
	if !ok {
		return
	}

	span.SetAttributes(attribute.Int64("sql_rows_affected", data.CommandTag.RowsAffected()))

	if data.Err != nil {
		span.SetStatus(codes.Error, data.Err.Error())
	}

	span.End()
}

func argsToStrings(in []any) []string {
	s := make([]string, len(in))

	for i := range in {
		s[i] = fmt.Sprint(in[i])
	}

	return s
}
