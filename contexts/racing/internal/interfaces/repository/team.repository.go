package repository

import (
	"context"

	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewTeamRepository(b Backend) (*TeamRepository, error) {
	repo, err := newRepository[domain.Team, domain.TeamID](b, TeamsTable)
	if err != nil {
		return nil, err
	}

	return &TeamRepository{repository: repo}, nil
}

type TeamRepository struct {
	repository[domain.Team, domain.TeamID]
}

var _ domain.TeamRepository = (*TeamRepository)(nil)

func (r *TeamRepository) FindByNameContains(ctx context.Context, part string) ([]domain.Team, error) {
	return r.allBy(ctx, q.Where("name").Contains(part))
}

func (r *TeamRepository) FindByNameContainsIgnoreCase(ctx context.Context, part string) ([]domain.Team, error) {
	return r.allBy(ctx, q.Where("name").ContainsFold(part))
}
