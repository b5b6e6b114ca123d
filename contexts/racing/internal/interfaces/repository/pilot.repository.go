package repository

import (
	"context"

	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewPilotRepository(b Backend) (*PilotRepository, error) {
	repo, err := newRepository[domain.Pilot, domain.PilotID](b, PilotsTable)
	if err != nil {
		return nil, err
	}

	return &PilotRepository{repository: repo}, nil
}

type PilotRepository struct {
	repository[domain.Pilot, domain.PilotID]
}

var _ domain.PilotRepository = (*PilotRepository)(nil)

func (r *PilotRepository) FindByNameStartsWithIgnoreCase(ctx context.Context, prefix string) ([]domain.Pilot, error) {
	return r.allBy(ctx, q.Where("name").HasPrefixFold(prefix))
}

func (r *PilotRepository) FindByCountry(ctx context.Context, id domain.CountryID) ([]domain.Pilot, error) {
	return r.allBy(ctx, q.Where("country_id").Is(id))
}

func (r *PilotRepository) FindByTeam(ctx context.Context, id domain.TeamID) ([]domain.Pilot, error) {
	return r.allBy(ctx, q.Where("team_id").Is(id))
}
