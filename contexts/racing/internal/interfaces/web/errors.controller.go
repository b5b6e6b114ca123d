package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/racetrack-labs/paddock/alog"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/domain"
)

// ErrorResponse is the body of all failed requests.
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewErrorHandler maps the errors returned by the controllers to a status code:
// a NotFoundError to 404, invalid input to 400, and everything else to 500.
// Only errors resulting in a 500 are logged, as they are not caused by the client.
func NewErrorHandler(logger alog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := statusOf(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, ErrorResponse{Message: message})
		}

		if err != nil {
			logger.ErrorContext(c.Request().Context(), "could not send error response", slog.String("error", err.Error()))
		}
	}
}

func statusOf(err error) (int, string) {
	var (
		notFound   *domain.NotFoundError
		validation validator.ValidationErrors
		httpErr    *echo.HTTPError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Message
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &httpErr):
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}

		return httpErr.Code, http.StatusText(httpErr.Code)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
