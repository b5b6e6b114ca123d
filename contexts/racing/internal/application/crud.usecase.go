// Package application contains the use cases of the racing context:
// one service per entity, all sharing the same crud operations.
package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

// Dependencies are shared by all services.
type Dependencies struct {
	app.Instrumentation

	// Transactor runs every mutating use case in a transaction. Optional.
	Transactor app.Transactor
}

type entity[E any, ID ~int64] interface {
	Identity() ID
	WithIdentity(id ID) E
}

type listAll struct{}

// crud implements the operations every service offers.
// Each operation is instrumented under the name "racing.<entity>.<Operation>".
type crud[E entity[E, ID], ID ~int64] struct {
	findByID app.Query[ID, E]
	insert   app.Request[E, E]
	update   app.Request[E, E]
	delete   app.Command[ID]
	listAll  app.Query[listAll, []E]
}

func newCrud[E entity[E, ID], ID ~int64](
	deps Dependencies,
	name string,
	repo domain.Repository[E, ID],
	msg domain.Messages,
) crud[E, ID] {
	return crud[E, ID]{
		findByID: app.NewInstrumentedQuery(deps.Instrumentation, useCase(name, "FindByID"),
			app.QueryFunc[ID, E](func(ctx context.Context, id ID) (E, error) {
				e, err := repo.FindByID(ctx, id)
				if errors.Is(err, domain.ErrNotFound) {
					return e, domain.NewNotFoundError(msg.ByID, id)
				}

				return e, err //nolint:wrapcheck // the repository adds the context
			}),
		),
		insert: app.NewInstrumentedRequest(deps.Instrumentation, useCase(name, "Insert"),
			app.NewTxRequest(deps.Transactor, app.RequestFunc[E, E](func(ctx context.Context, e E) (E, error) {
				id, err := repo.NextID(ctx)
				if err != nil {
					return e, fmt.Errorf("could not get new id: %w", err)
				}

				e = e.WithIdentity(id)

				return e, repo.Create(ctx, e) //nolint:wrapcheck // the repository adds the context
			})),
		),
		update: app.NewInstrumentedRequest(deps.Instrumentation, useCase(name, "Update"),
			app.NewTxRequest(deps.Transactor, app.RequestFunc[E, E](func(ctx context.Context, e E) (E, error) {
				ok, err := repo.ExistsByID(ctx, e.Identity())
				if err != nil {
					return e, err //nolint:wrapcheck // the repository adds the context
				}

				if !ok {
					return e, domain.NewNotFoundError(msg.Update, e.Identity())
				}

				err = repo.Update(ctx, e)
				if errors.Is(err, domain.ErrNotFound) {
					return e, domain.NewNotFoundError(msg.Update, e.Identity())
				}

				return e, err //nolint:wrapcheck // the repository adds the context
			})),
		),
		delete: app.NewInstrumentedCommand(deps.Instrumentation, useCase(name, "Delete"),
			app.NewTxCommand(deps.Transactor, app.CommandFunc[ID](func(ctx context.Context, id ID) error {
				ok, err := repo.ExistsByID(ctx, id)
				if err != nil {
					return err //nolint:wrapcheck // the repository adds the context
				}

				if !ok {
					return domain.NewNotFoundError(msg.ByID, id)
				}

				return repo.DeleteByID(ctx, id) //nolint:wrapcheck // the repository adds the context
			})),
		),
		listAll: app.NewInstrumentedQuery(deps.Instrumentation, useCase(name, "ListAll"),
			app.QueryFunc[listAll, []E](func(ctx context.Context, _ listAll) ([]E, error) {
				all, err := repo.FindAll(ctx)
				if err != nil {
					return nil, err //nolint:wrapcheck // the repository adds the context
				}

				if len(all) == 0 {
					return nil, domain.NotFound(msg.None)
				}

				return all, nil
			}),
		),
	}
}

// FindByID fails with domain.ErrNotFound, if there is no record with id.
func (c crud[E, ID]) FindByID(ctx context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	return c.findByID.H(ctx, id)
}

// Insert stores e under a new id. An id set in e is overwritten.
func (c crud[E, ID]) Insert(ctx context.Context, e E) (E, error) { //nolint:ireturn // valid use of generics
	return c.insert.H(ctx, e)
}

// Update replaces all fields of the record with the id of e.
func (c crud[E, ID]) Update(ctx context.Context, e E) (E, error) { //nolint:ireturn // valid use of generics
	return c.update.H(ctx, e)
}

func (c crud[E, ID]) Delete(ctx context.Context, id ID) error {
	return c.delete.H(ctx, id)
}

// ListAll returns all records ordered by id. Having no records is an error.
func (c crud[E, ID]) ListAll(ctx context.Context) ([]E, error) {
	return c.listAll.H(ctx, listAll{})
}

// newFilter returns an instrumented query, which fails with a NotFoundError if find has no result.
func newFilter[Q any, E any](
	deps Dependencies,
	name string,
	find func(ctx context.Context, query Q) ([]E, error),
	notFound func(query Q) error,
) app.Query[Q, []E] {
	return app.NewInstrumentedQuery(deps.Instrumentation, name,
		app.QueryFunc[Q, []E](func(ctx context.Context, query Q) ([]E, error) {
			res, err := find(ctx, query)
			if err != nil {
				return nil, err
			}

			if len(res) == 0 {
				return nil, notFound(query)
			}

			return res, nil
		}),
	)
}

func useCase(name string, operation string) string {
	return "racing." + name + "." + operation
}

// between is the query of all ranges, bounds included.
type between struct {
	from, to int
}
