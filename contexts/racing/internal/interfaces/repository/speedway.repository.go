package repository

import (
	"context"

	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewSpeedwayRepository(b Backend) (*SpeedwayRepository, error) {
	repo, err := newRepository[domain.Speedway, domain.SpeedwayID](b, SpeedwaysTable)
	if err != nil {
		return nil, err
	}

	return &SpeedwayRepository{repository: repo}, nil
}

type SpeedwayRepository struct {
	repository[domain.Speedway, domain.SpeedwayID]
}

var _ domain.SpeedwayRepository = (*SpeedwayRepository)(nil)

func (r *SpeedwayRepository) FindBySizeBetween(ctx context.Context, minSize, maxSize int) ([]domain.Speedway, error) {
	return r.allBy(ctx, q.Where("size").Between(minSize, maxSize))
}

func (r *SpeedwayRepository) FindByNameStartsWithIgnoreCase(
	ctx context.Context,
	prefix string,
) ([]domain.Speedway, error) {
	return r.allBy(ctx, q.Where("name").HasPrefixFold(prefix))
}

func (r *SpeedwayRepository) FindByCountry(ctx context.Context, id domain.CountryID) ([]domain.Speedway, error) {
	return r.allBy(ctx, q.Where("country_id").Is(id))
}
