package application

import (
	"context"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewTeamService(deps Dependencies, repo domain.TeamRepository) *TeamService {
	const name = "team"

	notFound := func(part string) error { return domain.NewNotFoundError(domain.MsgTeamByNameContains, part) }

	return &TeamService{
		crud:           newCrud[domain.Team, domain.TeamID](deps, name, repo, domain.TeamMessages),
		byNameContains: newFilter(deps, useCase(name, "FindByNameContains"), repo.FindByNameContains, notFound),
		byNameFold:     newFilter(deps, useCase(name, "FindByNameIgnoreCase"), repo.FindByNameContainsIgnoreCase, notFound),
	}
}

type TeamService struct {
	crud[domain.Team, domain.TeamID]

	byNameContains app.Query[string, []domain.Team]
	byNameFold     app.Query[string, []domain.Team]
}

func (s *TeamService) FindByNameContains(ctx context.Context, part string) ([]domain.Team, error) {
	return s.byNameContains.H(ctx, part)
}

// FindByNameIgnoreCase returns the teams containing part in their name, ignoring case.
func (s *TeamService) FindByNameIgnoreCase(ctx context.Context, part string) ([]domain.Team, error) {
	return s.byNameFold.H(ctx, part)
}
