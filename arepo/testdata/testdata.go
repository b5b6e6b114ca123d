// Package testdata contains the entities the repository tests work on.
package testdata

import "github.com/brianvoe/gofakeit/v6"

type (
	EntityID int64
	Entity   struct {
		ID   EntityID
		Name string
		Year int
	}
)

type (
	EntityUUID     string
	EntityWithUUID struct {
		ID   EntityUUID
		Name string
	}
)

// EntityWithCodePK is identified by a column that is not called id.
type EntityWithCodePK struct {
	Code string `db:"code"`
	Name string
}

func RandomEntity(id EntityID) Entity {
	return Entity{
		ID:   id,
		Name: gofakeit.Name(),
		Year: gofakeit.Number(1950, 2024), //nolint:mnd // seasons with a championship
	}
}

// Teams returns entities shaped like the racing teams of the seed data.
func Teams() []Entity {
	return []Entity{
		{ID: 1, Name: "Equipe 5", Year: 2001},
		{ID: 2, Name: "equipe 6", Year: 2005},
		{ID: 3, Name: "Scuderia Ímola", Year: 2010},
		{ID: 4, Name: "ÉQUIPE Brasil", Year: 2011},
	}
}
