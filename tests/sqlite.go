package tests

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-testfixtures/testfixtures/v3"

	"github.com/racetrack-labs/paddock/sqlite"
)

const commonFixture = "testdata/fixtures/_common.yaml"

// NewSQLiteDatabase creates a new database file, applies all migrations, and loads the fixtures from files.
// If there is a file named `testdata/fixtures/_common.yaml`, it's always loaded first.
// Every call works on its own file, so it can be used in parallel tests.
// The database is closed when the test finishes.
func NewSQLiteDatabase(t testing.TB, migrations fs.FS, files ...string) *sql.DB {
	t.Helper()

	db, err := sqlite.OpenAndMigrate(context.Background(), sqlite.Config{
		Path:       filepath.Join(t.TempDir(), "paddock_test.db"),
		Migrations: migrations,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = db.Close() })

	if _, err = os.Stat(commonFixture); errors.Is(err, nil) {
		files = append([]string{commonFixture}, files...)
	}

	if len(files) == 0 {
		return db
	}

	fixtures, err := testfixtures.New(
		testfixtures.Database(db),
		testfixtures.Dialect("sqlite"),
		testfixtures.FilesMultiTables(files...),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err = fixtures.Load(); err != nil {
		t.Fatal(err)
	}

	return db
}
