package repository

import (
	"context"

	"github.com/racetrack-labs/paddock/arepo/q"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewPilotRaceRepository(b Backend) (*PilotRaceRepository, error) {
	repo, err := newRepository[domain.PilotRace, domain.PilotRaceID](b, PilotRacesTable)
	if err != nil {
		return nil, err
	}

	return &PilotRaceRepository{repository: repo}, nil
}

type PilotRaceRepository struct {
	repository[domain.PilotRace, domain.PilotRaceID]
}

var _ domain.PilotRaceRepository = (*PilotRaceRepository)(nil)

func (r *PilotRaceRepository) FindByPilot(ctx context.Context, id domain.PilotID) ([]domain.PilotRace, error) {
	return r.allBy(ctx, q.Where("pilot_id").Is(id))
}

func (r *PilotRaceRepository) FindByRace(ctx context.Context, id domain.RaceID) ([]domain.PilotRace, error) {
	return r.allBy(ctx, q.Where("race_id").Is(id))
}
