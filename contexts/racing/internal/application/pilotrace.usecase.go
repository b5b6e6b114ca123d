package application

import (
	"context"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewPilotRaceService(deps Dependencies, repo domain.PilotRaceRepository) *PilotRaceService {
	const name = "pilot_race"

	return &PilotRaceService{
		crud: newCrud[domain.PilotRace, domain.PilotRaceID](deps, name, repo, domain.PilotRaceMessages),
		byPilot: newFilter(deps, useCase(name, "FindByPilot"), repo.FindByPilot,
			func(id domain.PilotID) error { return domain.NewNotFoundError(domain.MsgPilotRaceByPilot, id) },
		),
		byRace: newFilter(deps, useCase(name, "FindByRace"), repo.FindByRace,
			func(id domain.RaceID) error { return domain.NewNotFoundError(domain.MsgPilotRaceByRace, id) },
		),
	}
}

type PilotRaceService struct {
	crud[domain.PilotRace, domain.PilotRaceID]

	byPilot app.Query[domain.PilotID, []domain.PilotRace]
	byRace  app.Query[domain.RaceID, []domain.PilotRace]
}

func (s *PilotRaceService) FindByPilot(ctx context.Context, id domain.PilotID) ([]domain.PilotRace, error) {
	return s.byPilot.H(ctx, id)
}

func (s *PilotRaceService) FindByRace(ctx context.Context, id domain.RaceID) ([]domain.PilotRace, error) {
	return s.byRace.H(ctx, id)
}
