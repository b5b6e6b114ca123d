package application

import (
	"context"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewSpeedwayService(deps Dependencies, repo domain.SpeedwayRepository) *SpeedwayService {
	const name = "speedway"

	return &SpeedwayService{
		crud: newCrud[domain.Speedway, domain.SpeedwayID](deps, name, repo, domain.SpeedwayMessages),
		bySize: newFilter(deps, useCase(name, "FindBySizeBetween"),
			func(ctx context.Context, b between) ([]domain.Speedway, error) {
				return repo.FindBySizeBetween(ctx, b.from, b.to)
			},
			func(b between) error {
				return domain.NewNotFoundError(domain.MsgSpeedwayBySizeBetween, b.from, b.to)
			},
		),
		byNamePrefix: newFilter(deps, useCase(name, "FindByNameStartsWith"), repo.FindByNameStartsWithIgnoreCase,
			func(prefix string) error { return domain.NewNotFoundError(domain.MsgSpeedwayByNamePrefix, prefix) },
		),
		byCountry: newFilter(deps, useCase(name, "FindByCountry"), repo.FindByCountry,
			func(id domain.CountryID) error { return domain.NewNotFoundError(domain.MsgSpeedwayByCountry, id) },
		),
	}
}

type SpeedwayService struct {
	crud[domain.Speedway, domain.SpeedwayID]

	bySize       app.Query[between, []domain.Speedway]
	byNamePrefix app.Query[string, []domain.Speedway]
	byCountry    app.Query[domain.CountryID, []domain.Speedway]
}

// FindBySizeBetween includes both sizes.
func (s *SpeedwayService) FindBySizeBetween(ctx context.Context, minSize, maxSize int) ([]domain.Speedway, error) {
	return s.bySize.H(ctx, between{from: minSize, to: maxSize})
}

// FindByNameStartsWith ignores case.
func (s *SpeedwayService) FindByNameStartsWith(ctx context.Context, prefix string) ([]domain.Speedway, error) {
	return s.byNamePrefix.H(ctx, prefix)
}

func (s *SpeedwayService) FindByCountry(ctx context.Context, id domain.CountryID) ([]domain.Speedway, error) {
	return s.byCountry.H(ctx, id)
}
