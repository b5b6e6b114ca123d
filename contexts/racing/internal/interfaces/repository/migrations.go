package repository

import (
	"embed"
	"io/fs"
)

//go:embed postgres/migrations/*.sql sqlite/migrations/*.sql
var migrations embed.FS

// PostgresMigrations contains the directory "migrations" as expected by postgres.Config.
func PostgresMigrations() fs.FS {
	return sub("postgres")
}

// SQLiteMigrations contains the directory "migrations" as expected by sqlite.Config.
func SQLiteMigrations() fs.FS {
	return sub("sqlite")
}

func sub(dir string) fs.FS {
	f, err := fs.Sub(migrations, dir)
	if err != nil { // only fails for invalid names, dir is a constant
		panic(err)
	}

	return f
}
