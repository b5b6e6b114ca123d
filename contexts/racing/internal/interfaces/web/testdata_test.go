package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/racetrack-labs/paddock/alog"
	"github.com/racetrack-labs/paddock/app"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/application"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/repository"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/interfaces/web"
	"github.com/racetrack-labs/paddock/contexts/racing/internal/testdata"
)

// newTestRouter returns a router serving the racing api on memory repositories containing the seed data.
func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	repos, err := repository.NewRepositories(repository.Backend{})
	require.NoError(t, err)
	require.NoError(t, testdata.Seed(context.Background(), repos))

	racing := application.NewRacingApplication(application.Dependencies{
		Instrumentation: app.Instrumentation{
			TracerProvider: noop.NewTracerProvider(),
			MeterProvider:  noopmetric.NewMeterProvider(),
			Logger:         alog.NewNoop(),
		},
	}, application.Repositories{
		Countries:     repos.Countries,
		Teams:         repos.Teams,
		Championships: repos.Championships,
		Speedways:     repos.Speedways,
		Pilots:        repos.Pilots,
		PilotRaces:    repos.PilotRaces,
	})

	e := echo.New()
	e.HTTPErrorHandler = web.NewErrorHandler(alog.Test(t))
	web.RegisterRoutes(e.Group("/api"), racing, validator.New(validator.WithRequiredStructEnabled()))

	return e
}

func serve(e *echo.Echo, method string, target string, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

const (
	get  = http.MethodGet
	post = http.MethodPost
	put  = http.MethodPut
	del  = http.MethodDelete
)
