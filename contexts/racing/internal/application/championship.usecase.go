package application

import (
	"context"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewChampionshipService(deps Dependencies, repo domain.ChampionshipRepository) *ChampionshipService {
	const name = "championship"

	return &ChampionshipService{
		crud: newCrud[domain.Championship, domain.ChampionshipID](deps, name, repo, domain.ChampionshipMessages),
		byYear: newFilter(deps, useCase(name, "FindByYear"), repo.FindByYear,
			func(year int) error { return domain.NewNotFoundError(domain.MsgChampionshipByYear, year) },
		),
		byYearBetween: newFilter(deps, useCase(name, "FindByYearBetween"),
			func(ctx context.Context, b between) ([]domain.Championship, error) {
				return repo.FindByYearBetween(ctx, b.from, b.to)
			},
			func(b between) error {
				return domain.NewNotFoundError(domain.MsgChampionshipByYearBetween, b.from, b.to)
			},
		),
	}
}

type ChampionshipService struct {
	crud[domain.Championship, domain.ChampionshipID]

	byYear        app.Query[int, []domain.Championship]
	byYearBetween app.Query[between, []domain.Championship]
}

func (s *ChampionshipService) FindByYear(ctx context.Context, year int) ([]domain.Championship, error) {
	return s.byYear.H(ctx, year)
}

// FindByYearBetween includes both years.
func (s *ChampionshipService) FindByYearBetween(ctx context.Context, from, to int) ([]domain.Championship, error) {
	return s.byYearBetween.H(ctx, between{from: from, to: to})
}
