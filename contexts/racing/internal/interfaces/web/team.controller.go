package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewTeamController(svc *application.TeamService, validate *validator.Validate) *TeamController {
	return &TeamController{
		crudController: newCrudController[domain.Team, domain.TeamID](svc, validate),
		svc:            svc,
	}
}

type TeamController struct {
	crudController[domain.Team, domain.TeamID]

	svc *application.TeamService
}

// List filters by the query parameter contains, if given.
// With ignore_case=true the case of the name does not matter.
func (tc *TeamController) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		part := c.QueryParam("contains")
		if part == "" {
			return tc.listAll(c)
		}

		if c.QueryParam("ignore_case") == "true" {
			res, err := tc.svc.FindByNameIgnoreCase(c.Request().Context(), part)
			return respond(c, res, err)
		}

		res, err := tc.svc.FindByNameContains(c.Request().Context(), part)

		return respond(c, res, err)
	}
}

func (tc *TeamController) RegisterRoutes(g *echo.Group) {
	tc.register(g, tc.List())
}
