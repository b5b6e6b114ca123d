package application

import "github.com/racetrack-labs/paddock/contexts/racing/internal/domain"

// Repositories are the ports the services depend on.
type Repositories struct {
	Countries     domain.CountryRepository
	Teams         domain.TeamRepository
	Championships domain.ChampionshipRepository
	Speedways     domain.SpeedwayRepository
	Pilots        domain.PilotRepository
	PilotRaces    domain.PilotRaceRepository
}

type RacingApplication struct {
	Countries     *CountryService
	Teams         *TeamService
	Championships *ChampionshipService
	Speedways     *SpeedwayService
	Pilots        *PilotService
	PilotRaces    *PilotRaceService
}

func NewRacingApplication(deps Dependencies, repos Repositories) *RacingApplication {
	return &RacingApplication{
		Countries:     NewCountryService(deps, repos.Countries),
		Teams:         NewTeamService(deps, repos.Teams),
		Championships: NewChampionshipService(deps, repos.Championships),
		Speedways:     NewSpeedwayService(deps, repos.Speedways),
		Pilots:        NewPilotService(deps, repos.Pilots),
		PilotRaces:    NewPilotRaceService(deps, repos.PilotRaces),
	}
}
