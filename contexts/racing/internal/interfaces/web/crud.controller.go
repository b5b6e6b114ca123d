package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

// service is the part of an application service every controller uses.
type service[E any, ID ~int64] interface {
	FindByID(ctx context.Context, id ID) (E, error)
	Insert(ctx context.Context, e E) (E, error)
	Update(ctx context.Context, e E) (E, error)
	Delete(ctx context.Context, id ID) error
	ListAll(ctx context.Context) ([]E, error)
}

type entity[E any, ID ~int64] interface {
	WithIdentity(id ID) E
}

func newCrudController[E entity[E, ID], ID ~int64](svc service[E, ID], validate *validator.Validate) crudController[E, ID] {
	return crudController[E, ID]{
		svc:    svc,
		insert: app.NewValidatedRequest(validate, app.RequestFunc[E, E](svc.Insert)),
		update: app.NewValidatedRequest(validate, app.RequestFunc[E, E](svc.Update)),
	}
}

// crudController serves the operations shared by all resources.
type crudController[E entity[E, ID], ID ~int64] struct {
	svc    service[E, ID]
	insert app.Request[E, E]
	update app.Request[E, E]
}

// register adds the routes of the resource to g. list answers GET on the collection.
func (cc crudController[E, ID]) register(g *echo.Group, list echo.HandlerFunc) {
	g.GET("", list)
	g.POST("", cc.Create())
	g.GET("/:id", cc.Show())
	g.PUT("/:id", cc.Update())
	g.DELETE("/:id", cc.Delete())
}

func (cc crudController[E, ID]) Show() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := domain.ParseID[ID](c.Param("id"))
		if err != nil {
			return err //nolint:wrapcheck // mapped by the error handler
		}

		e, err := cc.svc.FindByID(c.Request().Context(), id)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		return c.JSON(http.StatusOK, e)
	}
}

func (cc crudController[E, ID]) Create() echo.HandlerFunc {
	return func(c echo.Context) error {
		var e E
		if err := c.Bind(&e); err != nil {
			return err //nolint:wrapcheck // echo.HTTPError with status 400
		}

		e, err := cc.insert.H(c.Request().Context(), e)
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		return c.JSON(http.StatusCreated, e)
	}
}

// Update takes the id from the path, an id in the body is ignored.
func (cc crudController[E, ID]) Update() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := domain.ParseID[ID](c.Param("id"))
		if err != nil {
			return err //nolint:wrapcheck // mapped by the error handler
		}

		var e E
		if err = c.Bind(&e); err != nil {
			return err //nolint:wrapcheck // echo.HTTPError with status 400
		}

		e, err = cc.update.H(c.Request().Context(), e.WithIdentity(id))
		if err != nil {
			return fmt.Errorf("%w", err)
		}

		return c.JSON(http.StatusOK, e)
	}
}

func (cc crudController[E, ID]) Delete() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := domain.ParseID[ID](c.Param("id"))
		if err != nil {
			return err //nolint:wrapcheck // mapped by the error handler
		}

		if err = cc.svc.Delete(c.Request().Context(), id); err != nil {
			return fmt.Errorf("%w", err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func (cc crudController[E, ID]) listAll(c echo.Context) error {
	all, err := cc.svc.ListAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return c.JSON(http.StatusOK, all)
}

func respond[E any](c echo.Context, res []E, err error) error {
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return c.JSON(http.StatusOK, res)
}

// intParam returns the query parameter name as int; ok is false if it is not set.
func intParam(c echo.Context, name string) (int, bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("query parameter %s is not a number", name))
	}

	return v, true, nil
}

// rangeParams returns the query parameters from and to, which have to be set together.
func rangeParams(c echo.Context, from string, to string) (int, int, bool, error) {
	lower, hasLower, err := intParam(c, from)
	if err != nil {
		return 0, 0, false, err
	}

	upper, hasUpper, err := intParam(c, to)
	if err != nil {
		return 0, 0, false, err
	}

	if hasLower != hasUpper {
		return 0, 0, false, echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("query parameters %s and %s are required together", from, to))
	}

	return lower, upper, hasLower, nil
}

// idParam returns the query parameter name as ID; ok is false if it is not set.
func idParam[ID ~int64](c echo.Context, name string) (ID, bool, error) { //nolint:ireturn // valid use of generics
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false, nil
	}

	id, err := domain.ParseID[ID](raw)
	if err != nil {
		return 0, false, fmt.Errorf("query parameter %s: %w", name, err)
	}

	return id, true, nil
}
