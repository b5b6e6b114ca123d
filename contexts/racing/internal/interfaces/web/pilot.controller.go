package web

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewPilotController(
	svc *application.PilotService,
	countries *application.CountryService,
	teams *application.TeamService,
	validate *validator.Validate,
) *PilotController {
	return &PilotController{
		crudController: newCrudController[domain.Pilot, domain.PilotID](svc, validate),
		svc:            svc,
		countries:      countries,
		teams:          teams,
	}
}

type PilotController struct {
	crudController[domain.Pilot, domain.PilotID]

	svc       *application.PilotService
	countries *application.CountryService
	teams     *application.TeamService
}

// List filters by the name prefix, the country, or the team.
func (pc *PilotController) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if prefix := c.QueryParam("prefix"); prefix != "" {
			res, err := pc.svc.FindByNameStartsWith(ctx, prefix)
			return respond(c, res, err)
		}

		country, ok, err := idParam[domain.CountryID](c, "country")
		if err != nil {
			return err
		}

		if ok {
			res, err := pc.svc.FindByCountry(ctx, country)
			return respond(c, res, err)
		}

		team, ok, err := idParam[domain.TeamID](c, "team")
		if err != nil {
			return err
		}

		if ok {
			res, err := pc.svc.FindByTeam(ctx, team)
			return respond(c, res, err)
		}

		return pc.listAll(c)
	}
}

type PilotDetails struct {
	domain.Pilot

	Country *domain.Country `json:"country,omitempty"`
	Team    *domain.Team    `json:"team,omitempty"`
}

// Details returns the pilot with its country and team resolved.
// A reference to a missing record fails with the NotFoundError of the referenced entity.
func (pc *PilotController) Details() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := domain.ParseID[domain.PilotID](c.Param("id"))
		if err != nil {
			return err
		}

		pilot, err := pc.svc.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		details := PilotDetails{Pilot: pilot}

		if pilot.CountryID != 0 {
			country, err := pc.countries.FindByID(ctx, pilot.CountryID)
			if err != nil {
				return fmt.Errorf("%w", err)
			}

			details.Country = &country
		}

		if pilot.TeamID != 0 {
			team, err := pc.teams.FindByID(ctx, pilot.TeamID)
			if err != nil {
				return fmt.Errorf("%w", err)
			}

			details.Team = &team
		}

		return c.JSON(http.StatusOK, details)
	}
}

func (pc *PilotController) RegisterRoutes(g *echo.Group) {
	pc.register(g, pc.List())
	g.GET("/:id/details", pc.Details())
}
