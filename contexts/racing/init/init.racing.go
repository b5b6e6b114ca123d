// Package init is the context's startup API.
//
// It connects the racing services to the shared dependencies:
// the storage backend, the api router, and the CLI.
package init

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/racetrack-labs/paddock"
	"github.com/racetrack-labs/paddock/alog"
	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/cli"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/repository"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/web"
)

const contextName = "racing"

// Migrations returns the schema of the racing context for all sql backends.
func Migrations() paddock.Migrations {
	return paddock.Migrations{
		Postgres: repository.PostgresMigrations(),
		SQLite:   repository.SQLiteMigrations(),
	}
}

func NewRacingContext(ctx context.Context, di *paddock.Container) (*RacingContext, error) {
	if err := di.EnsureAllDependenciesPresent(); err != nil {
		return nil, fmt.Errorf("missing dependencies to initialise context racing: %w", err)
	}

	racing, err := setupRacingContext(di)
	if err != nil {
		return nil, fmt.Errorf("could not initialise context racing: %w", err)
	}

	di.Logger.DebugContext(ctx, "context racing initialised")

	return racing, nil
}

type RacingContext struct {
	app *application.RacingApplication
}

// Commands returns the CLI of the context, one command per entity.
// The commands work on the storage of this context.
func (c *RacingContext) Commands() []*cobra.Command {
	return cli.Commands(func(context.Context) (*application.RacingApplication, func(context.Context) error, error) {
		return c.app, func(context.Context) error { return nil }, nil
	})
}

// Commands returns the CLI of the context for a process that does not serve the api:
// newContainer is only called, once one of the commands runs, and the container
// is shut down again after the command is done.
func Commands(newContainer func(ctx context.Context) (*paddock.Container, error)) []*cobra.Command {
	return cli.Commands(func(ctx context.Context) (*application.RacingApplication, func(context.Context) error, error) {
		dc, err := newContainer(ctx)
		if err != nil {
			return nil, nil, err
		}

		rc, err := NewRacingContext(ctx, dc)
		if err != nil {
			return nil, nil, errors.Join(err, dc.Shutdown(ctx))
		}

		return rc.app, func(ctx context.Context) error {
			return errors.Join(rc.Shutdown(ctx), dc.Shutdown(ctx))
		}, nil
	})
}

func (c *RacingContext) Shutdown(_ context.Context) error {
	return nil
}

func setupRacingContext(di *paddock.Container) (*RacingContext, error) {
	repos, err := repository.NewRepositories(repository.Backend{
		Postgres: di.PGx,
		SQLite:   di.SQLite,
		Store:    di.Store,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller
	}

	var logger alog.Logger = di.Logger
	if l, ok := di.Logger.(*slog.Logger); ok {
		logger = l.With(slog.String("context", contextName))
	}

	deps := application.Dependencies{
		Instrumentation: app.Instrumentation{
			TracerProvider: di.TraceProvider,
			MeterProvider:  di.MeterProvider,
			Logger:         logger,
		},
	}

	// the tx decorator only knows pgx, the other backends write each record on its own
	if di.PGx != nil {
		deps.Transactor = di.PGx
	}

	racing := application.NewRacingApplication(deps, application.Repositories{
		Countries:     repos.Countries,
		Teams:         repos.Teams,
		Championships: repos.Championships,
		Speedways:     repos.Speedways,
		Pilots:        repos.Pilots,
		PilotRaces:    repos.PilotRaces,
	})

	di.WebRouter.HTTPErrorHandler = web.NewErrorHandler(logger)
	web.RegisterRoutes(di.APIRouter, racing, di.Validate)

	return &RacingContext{app: racing}, nil
}
