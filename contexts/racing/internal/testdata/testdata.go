// Package testdata contains the racing seed data shared by the tests.
// It matches testdata/fixtures of the repository package.
package testdata

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/repository"
)

const (
	CountryID5 domain.CountryID = 5
	CountryID6 domain.CountryID = 6
	TeamID5    domain.TeamID    = 5
	TeamID6    domain.TeamID    = 6
	PilotID5   domain.PilotID   = 5
	PilotID6   domain.PilotID   = 6
	RaceID5    domain.RaceID    = 5

	// NotExistingID is not used by any record.
	NotExistingID = 90
)

func Countries() []domain.Country {
	return []domain.Country{
		{ID: CountryID5, Name: "País 5"},
		{ID: CountryID6, Name: "País 6"},
	}
}

func Teams() []domain.Team {
	return []domain.Team{
		{ID: TeamID5, Name: "Equipe 5"},
		{ID: TeamID6, Name: "Equipe 6"},
	}
}

func Championships() []domain.Championship {
	return []domain.Championship{
		{ID: 8, Description: "Campeonato 8", Year: 1995},
		{ID: 9, Description: "Campeonato 9", Year: 2000},
	}
}

func Speedways() []domain.Speedway {
	return []domain.Speedway{
		{ID: 3, Name: "Pista 3", Size: 15, CountryID: CountryID5},
		{ID: 4, Name: "Pista 4", Size: 20, CountryID: CountryID6},
	}
}

func Pilots() []domain.Pilot {
	return []domain.Pilot{
		{ID: PilotID5, Name: "Piloto 5", CountryID: CountryID5, TeamID: TeamID5},
		{ID: PilotID6, Name: "Piloto 6", CountryID: CountryID6, TeamID: TeamID6},
	}
}

func PilotRaces() []domain.PilotRace {
	return []domain.PilotRace{
		{ID: 5, Placement: "1", PilotID: PilotID5, RaceID: RaceID5},
		{ID: 6, Placement: "2", PilotID: PilotID6, RaceID: RaceID5},
	}
}

func RandomPilot() domain.Pilot {
	return domain.Pilot{
		Name:      gofakeit.Name(),
		CountryID: CountryID5,
		TeamID:    TeamID6,
	}
}

func RandomCountry() domain.Country {
	return domain.Country{Name: gofakeit.Country()}
}

// Seed creates all records, referenced ones first.
func Seed(ctx context.Context, repos *repository.Repositories) error {
	if err := create(ctx, repos.Countries, Countries()); err != nil {
		return err
	}

	if err := create(ctx, repos.Teams, Teams()); err != nil {
		return err
	}

	if err := create(ctx, repos.Championships, Championships()); err != nil {
		return err
	}

	if err := create(ctx, repos.Speedways, Speedways()); err != nil {
		return err
	}

	if err := create(ctx, repos.Pilots, Pilots()); err != nil {
		return err
	}

	return create(ctx, repos.PilotRaces, PilotRaces())
}

func create[E any](ctx context.Context, repo interface {
	Create(ctx context.Context, entity E) error
}, entities []E,
) error {
	for _, e := range entities {
		if err := repo.Create(ctx, e); err != nil {
			return fmt.Errorf("could not seed %T: %w", e, err)
		}
	}

	return nil
}
