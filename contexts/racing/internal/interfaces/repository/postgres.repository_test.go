//go:build integration

package repository_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/repository"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/testdata"
	"github.com/racetrack-labs/paddock/tests"
)

var pgDocker *tests.PostgresDocker

func TestMain(m *testing.M) {
	pgDocker = tests.GetPostgresDocker(tests.WithMigrations(repository.PostgresMigrations()))

	code := m.Run()

	pgDocker.Cleanup()
	os.Exit(code)
}

func TestPostgresRepositories(t *testing.T) {
	t.Parallel()

	racingSuite(t, newPostgresRepositories)
}

func TestPostgresRepositories_ForeignKeys(t *testing.T) {
	t.Parallel()

	repos := newPostgresRepositories(t)

	id, _ := repos.Speedways.NextID(ctx)
	err := repos.Speedways.Create(ctx, domain.Speedway{ID: id, Name: "Pista", Size: 10, CountryID: testdata.NotExistingID})
	assert.Error(t, err)

	err = repos.Countries.DeleteByID(ctx, testdata.CountryID5)
	assert.Error(t, err, "no cascading delete")
}

func newPostgresRepositories(t *testing.T) *repository.Repositories {
	t.Helper()

	pg := pgDocker.NewTestDatabase("testdata/fixtures/racing.yaml")
	t.Cleanup(func() { _ = pg.Shutdown(ctx) })

	repos, err := repository.NewRepositories(repository.Backend{Postgres: pg.PGx})
	require.NoError(t, err)

	return repos
}
