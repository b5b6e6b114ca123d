package repository

import (
	"context"

	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewCountryRepository(b Backend) (*CountryRepository, error) {
	repo, err := newRepository[domain.Country, domain.CountryID](b, CountriesTable)
	if err != nil {
		return nil, err
	}

	return &CountryRepository{repository: repo}, nil
}

type CountryRepository struct {
	repository[domain.Country, domain.CountryID]
}

var _ domain.CountryRepository = (*CountryRepository)(nil)

func (r *CountryRepository) FindByName(ctx context.Context, name string) ([]domain.Country, error) {
	return r.allBy(ctx, q.Where("name").EqualFold(name))
}
