//go:build integration

package tests

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/go-testfixtures/testfixtures/v3"
	"github.com/ory/dockertest/v3"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/racetrack-labs/paddock/postgres"
)

//nolint:gochecknoglobals // the variables are used on purpose for a singleton pattern.
var (
	muPostgres        = &sync.Mutex{}
	singletonPostgres *PostgresDocker
)

// PostgresOpt allows to initialise a custom postgres connection.
type PostgresOpt func(c *postgres.Config)

// WithMigrations sets the migrations applied to every database the PostgresDocker hands out.
// migrations is expected to contain a directory "migrations".
func WithMigrations(migrations fs.FS) PostgresOpt {
	return func(c *postgres.Config) {
		c.Migrations = migrations
	}
}

// GetPostgresDocker returns a connection to a postgres docker container.
// Subsequent calls return the same PostgresDocker to prevent multiple docker containers to spin up,
// if you have a lot of integration tests running in parallel. Options of later calls are ignored.
// In case of an issue, it panics.
func GetPostgresDocker(opts ...PostgresOpt) *PostgresDocker {
	muPostgres.Lock()
	defer muPostgres.Unlock()

	if singletonPostgres != nil {
		return singletonPostgres
	}

	singletonPostgres = NewPostgresDocker(opts...)

	return singletonPostgres
}

// NewPostgresDocker spins up and connects to a postgres instance in a new docker container.
// If migrations are given, the database of the container is migrated as well.
// Consider using GetPostgresDocker.
// If called in a CI environment, the pipeline needs access to a docker socket.
// In case of an issue, it panics.
func NewPostgresDocker(opts ...PostgresOpt) *PostgresDocker {
	conf := defaultPGConf
	for _, opt := range opts {
		opt(&conf)
	}

	var pgHandler *postgres.Handler

	retryFunc := func(resource *dockertest.Resource) func() error {
		port, _ := strconv.Atoi(resource.GetPort("5432/tcp"))
		conf.Port = port

		return func() error {
			connect := postgres.Connect
			if conf.Migrations != nil {
				connect = postgres.ConnectAndMigrate
			}

			handler, err := connect(context.Background(), conf, noop.NewTracerProvider())
			if err != nil {
				return err //nolint:wrapcheck
			}

			pgHandler = handler

			return nil
		}
	}

	options := *defaultPGRunOptions
	options.Name = fmt.Sprintf("paddock-testing-postgres-%d", rand.Intn(100000)) //nolint:gosec,mnd // prevent collisions only

	cleanup, err := StartDockerContainer(&options, retryFunc)
	if err != nil {
		panic(err)
	}

	return &PostgresDocker{
		pg:            pgHandler,
		cleanupDocker: cleanup,
	}
}

//nolint:gochecknoglobals,exhaustruct // only set required configuration
var (
	defaultPGConf = postgres.Config{
		User:     "paddock",
		Password: "secret",
		Database: "paddock_test",
		Host:     "localhost",
		Port:     5432, //nolint:mnd
		MaxConns: 10,   //nolint:mnd
	}

	defaultPGRunOptions = &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=" + defaultPGConf.User,
			"POSTGRES_PASSWORD=" + defaultPGConf.Password,
			"POSTGRES_DB=" + defaultPGConf.Database,
			"listen_addresses = '*'",
		},
		Cmd: []string{"-c", "max_connections=1000"},
	}
)

type PostgresDocker struct {
	pg            *postgres.Handler
	cleanupDocker func() error
}

// NewTestDatabase creates a new database, connects to it, and applies all migrations.
// Afterwards, it loads all fixtures from files.
// Use it in integration tests to create a valid database state for your test.
// If there is a file named `testdata/fixtures/_common.yaml`, it's always loaded first.
// It can be used in parallel, as every call gets its own database.
// In case of an issue, it panics.
func (pd *PostgresDocker) NewTestDatabase(files ...string) *postgres.Handler {
	pgHandler := pd.createAndConnectToNewRandomDatabase()

	loadFixtures(pgHandler, files...)

	return pgHandler
}

// PrepareDatabase prepares the database of the container for testing:
// all tables are truncated, identities restarted, and the fixture files loaded.
// If there is a file named `testdata/fixtures/_common.yaml`, it's always loaded first.
// In case of an issue, it panics.
func (pd *PostgresDocker) PrepareDatabase(files ...string) {
	ctx := context.Background()

	var tables []string

	err := pgxscan.Select(ctx, pd.pg.PGx, &tables,
		`SELECT quote_ident(table_schema) || '.' || quote_ident(table_name)
				FROM information_schema.tables
				WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
				  AND table_type = 'BASE TABLE'
				  AND table_name <> 'schema_migrations'`,
	)
	if err != nil {
		panic(err)
	}

	if len(tables) > 0 {
		_, err = pd.pg.PGx.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
		if err != nil {
			panic(err)
		}
	}

	loadFixtures(pd.pg, files...)
}

// Cleanup does shutdown the database connection, stops, and removes the docker image.
// It cannot be deferred in TestMain, if it exists with os.Exit(code), as that does not execute the defer stack.
// In case of an issue, it panics.
func (pd *PostgresDocker) Cleanup() {
	if err := pd.pg.Shutdown(context.Background()); err != nil {
		panic(err)
	}

	if err := pd.cleanupDocker(); err != nil {
		panic(err)
	}
}

// Handler returns the connection to the database of the container.
func (pd *PostgresDocker) Handler() *postgres.Handler {
	return pd.pg
}

func (pd *PostgresDocker) createAndConnectToNewRandomDatabase() *postgres.Handler {
	newDB := randomDatabaseName()

	_, err := pd.pg.PGx.Exec(context.Background(), fmt.Sprintf("CREATE DATABASE %s;", newDB))
	if err != nil {
		panic(err)
	}

	newConfig := pd.pg.Config
	newConfig.Database = newDB

	connect := postgres.Connect
	if newConfig.Migrations != nil {
		connect = postgres.ConnectAndMigrate
	}

	handler, err := connect(context.Background(), newConfig, noop.NewTracerProvider())
	if err != nil {
		panic(err)
	}

	return handler
}

func loadFixtures(pg *postgres.Handler, files ...string) {
	if _, err := os.Stat(commonFixture); errors.Is(err, nil) {
		files = append([]string{commonFixture}, files...)
	}

	if len(files) == 0 {
		return
	}

	fixtures, err := testfixtures.New(
		testfixtures.Database(pg.DB),
		testfixtures.Dialect("postgres"),
		testfixtures.ResetSequencesTo(1000), //nolint:mnd // above the ids used in fixtures
		testfixtures.FilesMultiTables(files...),
	)
	if err != nil {
		panic(err)
	}

	if err := fixtures.Load(); err != nil {
		panic(err)
	}
}

func randomDatabaseName() string {
	validPGDatabaseLetters := []rune("abcdefghijklmnopqrstuvwxyz")

	const n = 16
	b := make([]rune, n)

	for i := range b {
		b[i] = validPGDatabaseLetters[rand.Intn(len(validPGDatabaseLetters))] //nolint:gosec // used for name, not security
	}

	return string(b) + "_test"
}
