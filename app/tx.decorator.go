package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/racetrack-labs/paddock/postgres"
)

// Transactor starts database transactions, e.g. a *pgxpool.Pool.
type Transactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewTxRequest runs req inside a transaction stored under postgres.CtxTX.
// The transaction is committed if req succeeds and rolled back otherwise.
// If db is nil, req is returned undecorated.
func NewTxRequest[Req any, Res any](db Transactor, req Request[Req, Res]) Request[Req, Res] {
	if db == nil {
		return req
	}

	return &requestTxDecorator[Req, Res]{db: db, base: req}
}

type requestTxDecorator[Req any, Res any] struct {
	db   Transactor
	base Request[Req, Res]
}

func (d *requestTxDecorator[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn,lll // valid use of generics
	var res Res

	err := inTx(ctx, d.db, func(ctx context.Context) error {
		var err error
		res, err = d.base.H(ctx, req)

		return err //nolint:wrapcheck // decorate but not change anything
	})

	return res, err
}

// NewTxCommand is the Command variant of NewTxRequest.
func NewTxCommand[C any](db Transactor, cmd Command[C]) Command[C] {
	if db == nil {
		return cmd
	}

	return &commandTxDecorator[C]{db: db, base: cmd}
}

type commandTxDecorator[C any] struct {
	db   Transactor
	base Command[C]
}

func (d *commandTxDecorator[C]) H(ctx context.Context, cmd C) error {
	return inTx(ctx, d.db, func(ctx context.Context) error {
		return d.base.H(ctx, cmd) //nolint:wrapcheck // decorate but not change anything
	})
}

func inTx(ctx context.Context, db Transactor, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(postgres.CtxTX).(pgx.Tx); ok { // join the outer transaction
		return fn(ctx)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	err = fn(context.WithValue(ctx, postgres.CtxTX, tx))
	if err != nil {
		if rb := tx.Rollback(ctx); rb != nil {
			return fmt.Errorf("could not rollback transaction: %w: %w", rb, err)
		}

		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}
