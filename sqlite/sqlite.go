// Package sqlite opens embedded SQLite databases through the pure Go driver modernc.org/sqlite
// and keeps their schema up to date.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"golang.org/x/text/cases"
	"modernc.org/sqlite"

	ctx2 "github.com/racetrack-labs/paddock/ctx"
)

// CtxTX contains a *sql.Tx, only if set by the caller.
const CtxTX ctx2.CTXKey = "paddock.sqlite.tx"

// InMemory is the Path of a private in memory database.
const InMemory = ":memory:"

var (
	ErrOpenFailed      = errors.New("could not open sqlite database")
	ErrMigrationFailed = errors.New("migration failed")
)

// Config holds the values to open a database.
// Migrations is expected to contain a directory "migrations" with the sql files.
type Config struct {
	Migrations fs.FS
	Path       string
}

//nolint:gochecknoglobals // the driver keeps functions in a global registry
var (
	registerOnce sync.Once
	errRegister  error
)

// registerFunctions adds casefold(text), a Unicode aware replacement for lower(),
// which only folds ASCII characters in SQLite.
func registerFunctions() error {
	registerOnce.Do(func() {
		errRegister = sqlite.RegisterDeterministicScalarFunction("casefold", 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case nil:
					return nil, nil
				case string:
					return cases.Fold().String(v), nil
				case []byte:
					return cases.Fold().String(string(v)), nil
				default:
					return v, nil
				}
			},
		)
	})

	return errRegister
}

// Open opens the database at conf.Path with foreign keys enabled and checks the connection.
// The journal runs in WAL mode, so readers do not block the single writer.
func Open(ctx context.Context, conf Config) (*sql.DB, error) {
	if conf.Path == "" {
		return nil, fmt.Errorf("%w: missing path", ErrOpenFailed)
	}

	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("%w: could not register functions: %v", ErrOpenFailed, err)
	}

	dsn := conf.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if conf.Path != InMemory {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}

	if conf.Path == InMemory { // every connection would open its own empty database
		db.SetMaxOpenConns(1)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: could not ping db: %v", ErrOpenFailed, err)
	}

	return db, nil
}

// OpenAndMigrate opens the database and runs all migrations to ensure that the schema is on the latest version.
func OpenAndMigrate(ctx context.Context, conf Config) (*sql.DB, error) {
	if conf.Migrations == nil {
		return nil, fmt.Errorf("%w: no migration files given", ErrMigrationFailed)
	}

	db, err := Open(ctx, conf)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db, conf.Migrations); err != nil {
		_ = db.Close()

		return nil, err
	}

	return db, nil
}

// Migrate runs all pending up migrations found in the directory "migrations" of migrations.
func Migrate(db *sql.DB, migrations fs.FS) error {
	fsDriver, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("%w: could not create migration file driver: %v", ErrMigrationFailed, err) //nolint:errorlint,lll // prevent err in api
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{}) //nolint:exhaustruct // use default config
	if err != nil {
		return fmt.Errorf("%w: could not get database driver: %v", ErrMigrationFailed, err) //nolint:errorlint,lll // prevent err in api
	}

	m, err := migrate.NewWithInstance("iofs", fsDriver, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("%w: could not create new migration instance: %v", ErrMigrationFailed, err) //nolint:errorlint,lll // prevent err in api
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: could not migrate up: %v", ErrMigrationFailed, err) //nolint:errorlint,lll // prevent err in api
	}

	return nil
}
