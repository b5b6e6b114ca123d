package app

import (
	"context"
	"log/slog"

	"github.com/racetrack-labs/paddock/alog"
)

func NewLoggedRequest[Req any, Res any](logger alog.Logger, name string, handler Request[Req, Res]) Request[Req, Res] {
	return &requestLoggingDecorator[Req, Res]{logger: logger, name: name, base: handler}
}

type requestLoggingDecorator[Req any, Res any] struct {
	logger alog.Logger
	name   string
	base   Request[Req, Res]
}

func (d *requestLoggingDecorator[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn,lll // valid use of generics
	d.logger.DebugContext(ctx, "executing request", slog.String("usecase", d.name))

	res, err := d.base.H(ctx, req)
	logOutcome(ctx, d.logger, "request", d.name, err)

	return res, err //nolint:wrapcheck // decorate but not change anything
}

func NewLoggedCommand[C any](logger alog.Logger, name string, handler Command[C]) Command[C] {
	return &commandLoggingDecorator[C]{logger: logger, name: name, base: handler}
}

type commandLoggingDecorator[C any] struct {
	logger alog.Logger
	name   string
	base   Command[C]
}

func (d *commandLoggingDecorator[C]) H(ctx context.Context, cmd C) error {
	d.logger.DebugContext(ctx, "executing command", slog.String("usecase", d.name))

	err := d.base.H(ctx, cmd)
	logOutcome(ctx, d.logger, "command", d.name, err)

	return err //nolint:wrapcheck // decorate but not change anything
}

func NewLoggedQuery[Q any, Res any](logger alog.Logger, name string, handler Query[Q, Res]) Query[Q, Res] {
	return &queryLoggingDecorator[Q, Res]{logger: logger, name: name, base: handler}
}

type queryLoggingDecorator[Q any, Res any] struct {
	logger alog.Logger
	name   string
	base   Query[Q, Res]
}

func (d *queryLoggingDecorator[Q, Res]) H(ctx context.Context, query Q) (Res, error) { //nolint:ireturn,lll // valid use of generics
	d.logger.DebugContext(ctx, "executing query", slog.String("usecase", d.name))

	res, err := d.base.H(ctx, query)
	logOutcome(ctx, d.logger, "query", d.name, err)

	return res, err //nolint:wrapcheck // decorate but not change anything
}

func logOutcome(ctx context.Context, logger alog.Logger, kind string, name string, err error) {
	if err != nil {
		logger.DebugContext(ctx, "failed to execute "+kind,
			slog.String("usecase", name),
			slog.String("error", err.Error()),
		)

		return
	}

	logger.DebugContext(ctx, kind+" executed successfully", slog.String("usecase", name))
}
