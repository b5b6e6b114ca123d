package application

import (
	"context"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewCountryService(deps Dependencies, repo domain.CountryRepository) *CountryService {
	const name = "country"

	return &CountryService{
		crud: newCrud[domain.Country, domain.CountryID](deps, name, repo, domain.CountryMessages),
		byName: newFilter(deps, useCase(name, "FindByName"), repo.FindByName,
			func(n string) error { return domain.NewNotFoundError(domain.MsgCountryByName, n) },
		),
	}
}

type CountryService struct {
	crud[domain.Country, domain.CountryID]

	byName app.Query[string, []domain.Country]
}

// FindByName matches the whole name, ignoring case.
func (s *CountryService) FindByName(ctx context.Context, name string) ([]domain.Country, error) {
	return s.byName.H(ctx, name)
}
