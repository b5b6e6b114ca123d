package web

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

func NewSpeedwayController(
	svc *application.SpeedwayService,
	countries *application.CountryService,
	validate *validator.Validate,
) *SpeedwayController {
	return &SpeedwayController{
		crudController: newCrudController[domain.Speedway, domain.SpeedwayID](svc, validate),
		svc:            svc,
		countries:      countries,
	}
}

type SpeedwayController struct {
	crudController[domain.Speedway, domain.SpeedwayID]

	svc       *application.SpeedwayService
	countries *application.CountryService
}

// List filters by the size range min and max, the name prefix, or the country.
func (sc *SpeedwayController) List() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		minSize, maxSize, ok, err := rangeParams(c, "min", "max")
		if err != nil {
			return err
		}

		if ok {
			res, err := sc.svc.FindBySizeBetween(ctx, minSize, maxSize)
			return respond(c, res, err)
		}

		if prefix := c.QueryParam("prefix"); prefix != "" {
			res, err := sc.svc.FindByNameStartsWith(ctx, prefix)
			return respond(c, res, err)
		}

		country, ok, err := idParam[domain.CountryID](c, "country")
		if err != nil {
			return err
		}

		if ok {
			res, err := sc.svc.FindByCountry(ctx, country)
			return respond(c, res, err)
		}

		return sc.listAll(c)
	}
}

type SpeedwayDetails struct {
	domain.Speedway

	Country *domain.Country `json:"country,omitempty"`
}

// Details returns the speedway with its country resolved.
func (sc *SpeedwayController) Details() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		id, err := domain.ParseID[domain.SpeedwayID](c.Param("id"))
		if err != nil {
			return err
		}

		speedway, err := sc.svc.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		details := SpeedwayDetails{Speedway: speedway}

		if speedway.CountryID != 0 {
			country, err := sc.countries.FindByID(ctx, speedway.CountryID)
			if err != nil {
				return fmt.Errorf("%w", err)
			}

			details.Country = &country
		}

		return c.JSON(http.StatusOK, details)
	}
}

func (sc *SpeedwayController) RegisterRoutes(g *echo.Group) {
	sc.register(g, sc.List())
	g.GET("/:id/details", sc.Details())
}
