package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewChampionshipController(svc *application.ChampionshipService, validate *validator.Validate) *ChampionshipController {
	return &ChampionshipController{
		crudController: newCrudController[domain.Championship, domain.ChampionshipID](svc, validate),
		svc:            svc,
	}
}

type ChampionshipController struct {
	crudController[domain.Championship, domain.ChampionshipID]

	svc *application.ChampionshipService
}

// List filters by the query parameter year or the range from and to.
func (cc *ChampionshipController) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		year, ok, err := intParam(c, "year")
		if err != nil {
			return err
		}

		if ok {
			res, err := cc.svc.FindByYear(ctx, year)
			return respond(c, res, err)
		}

		from, to, ok, err := rangeParams(c, "from", "to")
		if err != nil {
			return err
		}

		if ok {
			res, err := cc.svc.FindByYearBetween(ctx, from, to)
			return respond(c, res, err)
		}

		return cc.listAll(c)
	}
}

func (cc *ChampionshipController) RegisterRoutes(g *echo.Group) {
	cc.register(g, cc.List())
}
