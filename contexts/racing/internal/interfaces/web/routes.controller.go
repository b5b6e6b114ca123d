// Package web exposes the racing services as a JSON API.
package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
)

// RegisterRoutes adds one resource per entity below api, e.g. /api/pilots.
func RegisterRoutes(api *echo.Group, racing *application.RacingApplication, validate *validator.Validate) {
	NewCountryController(racing.Countries, validate).RegisterRoutes(api.Group("/countries"))
	NewTeamController(racing.Teams, validate).RegisterRoutes(api.Group("/teams"))
	NewChampionshipController(racing.Championships, validate).RegisterRoutes(api.Group("/championships"))
	NewSpeedwayController(racing.Speedways, racing.Countries, validate).RegisterRoutes(api.Group("/speedways"))
	NewPilotController(racing.Pilots, racing.Countries, racing.Teams, validate).RegisterRoutes(api.Group("/pilots"))
	NewPilotRaceController(racing.PilotRaces, validate).RegisterRoutes(api.Group("/pilot-races"))
}
