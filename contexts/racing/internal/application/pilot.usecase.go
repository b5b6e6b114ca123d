package application

import (
	"context"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewPilotService(deps Dependencies, repo domain.PilotRepository) *PilotService {
	const name = "pilot"

	return &PilotService{
		crud: newCrud[domain.Pilot, domain.PilotID](deps, name, repo, domain.PilotMessages),
		byNamePrefix: newFilter(deps, useCase(name, "FindByNameStartsWith"), repo.FindByNameStartsWithIgnoreCase,
			func(prefix string) error { return domain.NewNotFoundError(domain.MsgPilotByNamePrefix, prefix) },
		),
		byCountry: newFilter(deps, useCase(name, "FindByCountry"), repo.FindByCountry,
			func(id domain.CountryID) error { return domain.NewNotFoundError(domain.MsgPilotByCountry, id) },
		),
		byTeam: newFilter(deps, useCase(name, "FindByTeam"), repo.FindByTeam,
			func(id domain.TeamID) error { return domain.NewNotFoundError(domain.MsgPilotByTeam, id) },
		),
	}
}

type PilotService struct {
	crud[domain.Pilot, domain.PilotID]

	byNamePrefix app.Query[string, []domain.Pilot]
	byCountry    app.Query[domain.CountryID, []domain.Pilot]
	byTeam       app.Query[domain.TeamID, []domain.Pilot]
}

// FindByNameStartsWith ignores case.
func (s *PilotService) FindByNameStartsWith(ctx context.Context, prefix string) ([]domain.Pilot, error) {
	return s.byNamePrefix.H(ctx, prefix)
}

func (s *PilotService) FindByCountry(ctx context.Context, id domain.CountryID) ([]domain.Pilot, error) {
	return s.byCountry.H(ctx, id)
}

func (s *PilotService) FindByTeam(ctx context.Context, id domain.TeamID) ([]domain.Pilot, error) {
	return s.byTeam.H(ctx, id)
}
