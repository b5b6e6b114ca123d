package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewCountryController(svc *application.CountryService, validate *validator.Validate) *CountryController {
	return &CountryController{
		crudController: newCrudController[domain.Country, domain.CountryID](svc, validate),
		svc:            svc,
	}
}

type CountryController struct {
	crudController[domain.Country, domain.CountryID]

	svc *application.CountryService
}

// List filters by the query parameter name, if given.
func (cc *CountryController) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		if name := c.QueryParam("name"); name != "" {
			res, err := cc.svc.FindByName(c.Request().Context(), name)
			return respond(c, res, err)
		}

		return cc.listAll(c)
	}
}

func (cc *CountryController) RegisterRoutes(g *echo.Group) {
	cc.register(g, cc.List())
}
