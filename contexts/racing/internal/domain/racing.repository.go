package domain

import "context"

// Repository is the persistence every entity shares.
// FindByID and Update return ErrNotFound, if there is no record with the id.
// FindAll returns the records in ascending id order and an empty slice, if there are none.
type Repository[E any, ID ~int64] interface {
	NextID(ctx context.Context) (ID, error)

	Create(ctx context.Context, entity E) error
	FindByID(ctx context.Context, id ID) (E, error)
	Update(ctx context.Context, entity E) error
	DeleteByID(ctx context.Context, id ID) error

	ExistsByID(ctx context.Context, id ID) (bool, error)
	FindAll(ctx context.Context) ([]E, error)
}

type CountryRepository interface {
	Repository[Country, CountryID]

	// FindByName matches the whole name, ignoring case.
	FindByName(ctx context.Context, name string) ([]Country, error)
}

type TeamRepository interface {
	Repository[Team, TeamID]

	FindByNameContains(ctx context.Context, part string) ([]Team, error)
	FindByNameContainsIgnoreCase(ctx context.Context, part string) ([]Team, error)
}

type ChampionshipRepository interface {
	Repository[Championship, ChampionshipID]

	FindByYear(ctx context.Context, year int) ([]Championship, error)
	// FindByYearBetween includes both bounds.
	FindByYearBetween(ctx context.Context, from, to int) ([]Championship, error)
}

type SpeedwayRepository interface {
	Repository[Speedway, SpeedwayID]

	// FindBySizeBetween includes both bounds.
	FindBySizeBetween(ctx context.Context, minSize, maxSize int) ([]Speedway, error)
	FindByNameStartsWithIgnoreCase(ctx context.Context, prefix string) ([]Speedway, error)
	FindByCountry(ctx context.Context, id CountryID) ([]Speedway, error)
}

type PilotRepository interface {
	Repository[Pilot, PilotID]

	FindByNameStartsWithIgnoreCase(ctx context.Context, prefix string) ([]Pilot, error)
	FindByCountry(ctx context.Context, id CountryID) ([]Pilot, error)
	FindByTeam(ctx context.Context, id TeamID) ([]Pilot, error)
}

type PilotRaceRepository interface {
	Repository[PilotRace, PilotRaceID]

	FindByPilot(ctx context.Context, id PilotID) ([]PilotRace, error)
	FindByRace(ctx context.Context, id RaceID) ([]PilotRace, error)
}
