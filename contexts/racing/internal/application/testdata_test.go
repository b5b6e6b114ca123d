package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/racetrack-labs/paddock/alog"
	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/repository"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/testdata"
)

var ctx = context.Background()

var deps = application.Dependencies{ //nolint:gochecknoglobals // shared by all tests
	Instrumentation: app.Instrumentation{
		TracerProvider: noop.NewTracerProvider(),
		MeterProvider:  noopmetric.NewMeterProvider(),
		Logger:         alog.NewNoop(),
	},
}

// newSeededApp returns an application on memory repositories containing the seed data.
func newSeededApp(t *testing.T) *application.RacingApplication {
	t.Helper()

	repos := newRepositories(t)
	require.NoError(t, testdata.Seed(ctx, repos))

	return newApp(repos)
}

// newEmptyApp returns an application without any records.
func newEmptyApp(t *testing.T) *application.RacingApplication {
	t.Helper()

	return newApp(newRepositories(t))
}

func newRepositories(t *testing.T) *repository.Repositories {
	t.Helper()

	repos, err := repository.NewRepositories(repository.Backend{})
	require.NoError(t, err)

	return repos
}

func newApp(repos *repository.Repositories) *application.RacingApplication {
	return application.NewRacingApplication(deps, application.Repositories{
		Countries:     repos.Countries,
		Teams:         repos.Teams,
		Championships: repos.Championships,
		Speedways:     repos.Speedways,
		Pilots:        repos.Pilots,
		PilotRaces:    repos.PilotRaces,
	})
}
