package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewPilotRaceController(svc *application.PilotRaceService, validate *validator.Validate) *PilotRaceController {
	return &PilotRaceController{
		crudController: newCrudController[domain.PilotRace, domain.PilotRaceID](svc, validate),
		svc:            svc,
	}
}

type PilotRaceController struct {
	crudController[domain.PilotRace, domain.PilotRaceID]

	svc *application.PilotRaceService
}

// List filters by the pilot or the race.
func (pc *PilotRaceController) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		pilot, ok, err := idParam[domain.PilotID](c, "pilot")
		if err != nil {
			return err
		}

		if ok {
			res, err := pc.svc.FindByPilot(ctx, pilot)
			return respond(c, res, err)
		}

		race, ok, err := idParam[domain.RaceID](c, "race")
		if err != nil {
			return err
		}

		if ok {
			res, err := pc.svc.FindByRace(ctx, race)
			return respond(c, res, err)
		}

		return pc.listAll(c)
	}
}

func (pc *PilotRaceController) RegisterRoutes(g *echo.Group) {
	pc.register(g, pc.List())
}
