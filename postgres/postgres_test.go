//go:build integration

package postgres_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"testing/fstest"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/racetrack-labs/paddock/postgres"
	"github.com/racetrack-labs/paddock/tests"
)

var (
	ctx    = context.Background()
	pgConf postgres.Config
)

func TestMain(m *testing.M) {
	cleanup, err := tests.StartDockerContainer(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=paddock",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=paddock_test",
		},
	}, func(resource *dockertest.Resource) func() error {
		port, _ := strconv.Atoi(resource.GetPort("5432/tcp"))
		pgConf = postgres.Config{User: "paddock", Password: "secret", Database: "paddock_test", Host: "localhost", Port: port}

		return func() error {
			pg, err := postgres.Connect(ctx, pgConf, noop.NewTracerProvider())
			if err != nil {
				return err //nolint:wrapcheck
			}

			return pg.Shutdown(ctx)
		}
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()

	_ = cleanup()
	os.Exit(code)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connect", func(t *testing.T) {
		t.Parallel()

		pg, err := postgres.Connect(ctx, pgConf, noop.NewTracerProvider())
		require.NoError(t, err)

		assert.NoError(t, pg.PGx.Ping(ctx))
		assert.NoError(t, pg.DB.PingContext(ctx))
		assert.NoError(t, pg.Shutdown(ctx))
	})

	t.Run("wrong credentials", func(t *testing.T) {
		t.Parallel()

		conf := pgConf
		conf.Password = "wrong"

		pg, err := postgres.Connect(ctx, conf, noop.NewTracerProvider())
		assert.ErrorIs(t, err, postgres.ErrConnectionFailed)
		assert.Nil(t, pg)
	})
}

func TestConnectAndMigrate(t *testing.T) {
	t.Parallel()

	t.Run("missing migrations", func(t *testing.T) {
		t.Parallel()

		pg, err := postgres.ConnectAndMigrate(ctx, pgConf, noop.NewTracerProvider())
		assert.ErrorIs(t, err, postgres.ErrMigrationFailed)
		assert.Nil(t, pg)
	})

	t.Run("migrate", func(t *testing.T) {
		t.Parallel()

		conf := pgConf
		conf.Migrations = fstest.MapFS{
			"migrations/1_init.up.sql":   {Data: []byte(`CREATE TABLE countries (id BIGSERIAL PRIMARY KEY, name TEXT NOT NULL);`)},
			"migrations/1_init.down.sql": {Data: []byte(`DROP TABLE countries;`)},
		}

		pg, err := postgres.ConnectAndMigrate(ctx, conf, noop.NewTracerProvider())
		require.NoError(t, err)
		t.Cleanup(func() { _ = pg.Shutdown(ctx) })

		assert.NoError(t, pg.Migrate(), "migrating again is no error")

		var c int
		require.NoError(t, pg.PGx.QueryRow(ctx, "SELECT COUNT(*) FROM countries").Scan(&c))
		assert.Equal(t, 0, c)
	})
}
