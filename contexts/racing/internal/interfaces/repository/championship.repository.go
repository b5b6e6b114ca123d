package repository

import (
	"context"

	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewChampionshipRepository(b Backend) (*ChampionshipRepository, error) {
	repo, err := newRepository[domain.Championship, domain.ChampionshipID](b, ChampionshipsTable)
	if err != nil {
		return nil, err
	}

	return &ChampionshipRepository{repository: repo}, nil
}

type ChampionshipRepository struct {
	repository[domain.Championship, domain.ChampionshipID]
}

var _ domain.ChampionshipRepository = (*ChampionshipRepository)(nil)

func (r *ChampionshipRepository) FindByYear(ctx context.Context, year int) ([]domain.Championship, error) {
	return r.allBy(ctx, q.Where("year").Is(year))
}

func (r *ChampionshipRepository) FindByYearBetween(ctx context.Context, from, to int) ([]domain.Championship, error) {
	return r.allBy(ctx, q.Where("year").Between(from, to))
}
