// Package paddock wires the shared infrastructure of the racing service:
// configuration, observability, storage, and the HTTP servers.
package paddock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	prometheusSDK "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/racetrack-labs/paddock/alog"
	"github.com/racetrack-labs/paddock/arepo"
	"github.com/racetrack-labs/paddock/postgres"
	"github.com/racetrack-labs/paddock/sqlite"
)

var ErrMissingDependency = errors.New("missing dependency")

// Migrations are the schema files of the storage backends.
// Each fs.FS is expected to contain a directory "migrations".
type Migrations struct {
	Postgres fs.FS
	SQLite   fs.FS
}

// Container holds the global dependencies a Context is initialised with.
// Exactly one of PGx, SQLite, or Store is set, depending on Config.Storage.Backend;
// for the memory backend without a directory none of them is set.
type Container struct {
	Logger        alog.Logger
	MeterProvider *metric.MeterProvider
	TraceProvider *trace.TracerProvider
	Registry      *prometheusSDK.Registry

	Config *Config

	PGx    *pgxpool.Pool
	SQLite *sql.DB
	Store  arepo.Store

	Validate *validator.Validate

	WebRouter *echo.Echo
	APIRouter *echo.Group

	pg             *postgres.Handler
	statusEndpoint *http.Server
	startedAt      time.Time
}

func (c *Container) EnsureAllDependenciesPresent() error {
	if c.Config == nil {
		return fmt.Errorf("%w: global config not found", ErrMissingDependency)
	}

	if c.Logger == nil {
		return fmt.Errorf("%w: logger not found", ErrMissingDependency)
	}

	if c.TraceProvider == nil || c.MeterProvider == nil {
		return fmt.Errorf("%w: otel providers not found", ErrMissingDependency)
	}

	if c.WebRouter == nil || c.APIRouter == nil {
		return fmt.Errorf("%w: web router not found", ErrMissingDependency)
	}

	return nil
}

func InitialiseDefaultDependencies(ctx context.Context, conf *Config, migrations Migrations) (*Container, error) {
	dc := &Container{
		Config:   conf,
		Registry: prometheusSDK.NewRegistry(),
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	dc.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct // use defaults
	)

	{ // observability
		resource := resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(conf.ApplicationName),
			attribute.String("instance_name", instanceName(conf)),
			attribute.String("environment", string(conf.Environment)),
		)

		{ // traces
			opts := []otlptracegrpc.Option{
				otlptracegrpc.WithEndpoint(fmt.Sprintf("%s:%d", conf.OTEL.Host, conf.OTEL.Port)),
				otlptracegrpc.WithInsecure(),
				otlptracegrpc.WithDialOption(grpc.WithUserAgent(conf.ApplicationName + "/" + gitHash())),
			}

			if conf.Environment == TestEnv || conf.Environment == "" {
				// no collector is running in tests, so the shutdown would block until the ctx expires
				opts = append(opts, otlptracegrpc.WithTimeout(10*time.Millisecond))
			}

			traceExporter, err := otlptracegrpc.New(ctx, opts...)
			if err != nil {
				return nil, fmt.Errorf("could not connect to trace exporter: %w", err)
			}

			traceProvider := trace.NewTracerProvider(
				trace.WithBatcher(traceExporter),
				trace.WithResource(resource),
				trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(0.6))),
			)
			if conf.Environment == LocalEnv {
				traceProvider = trace.NewTracerProvider(
					trace.WithBatcher(traceExporter, trace.WithBlocking()),
					trace.WithResource(resource),
					trace.WithSampler(trace.AlwaysSample()),
				)
			}

			dc.TraceProvider = traceProvider
			otel.SetTracerProvider(traceProvider)
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			))
		}

		{ // metrics
			exporter, err := prometheus.New(prometheus.WithRegisterer(dc.Registry))
			if err != nil {
				return nil, fmt.Errorf("could not create prometheus exporter: %w", err)
			}

			meterProvider := metric.NewMeterProvider(
				metric.WithResource(resource),
				metric.WithReader(exporter),
			)

			dc.MeterProvider = meterProvider
			otel.SetMeterProvider(meterProvider)
		}
	}

	{ // logger
		dc.Logger = newLogger(conf)
		slog.SetDefault(dc.Logger.(*slog.Logger)) //nolint:forcetypeassert // newLogger returns a *slog.Logger
	}

	if err := dc.openStorage(ctx, migrations); err != nil {
		_ = dc.TraceProvider.Shutdown(ctx)
		_ = dc.MeterProvider.Shutdown(ctx)

		return nil, err
	}

	{ // web router
		router := echo.New()
		router.HideBanner = true
		router.HidePort = true
		router.Logger.SetOutput(io.Discard)
		router.IPExtractor = echo.ExtractIPFromXFFHeader()
		router.Debug = conf.Environment == LocalEnv

		router.Use(middleware.Recover())
		router.Use(otelecho.Middleware(conf.OTEL.Hostname, otelecho.WithTracerProvider(dc.TraceProvider)))
		router.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{ //nolint:exhaustruct // use defaults
			Subsystem:  "paddock",
			Registerer: dc.Registry,
		}))
		router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{ //nolint:exhaustruct // use defaults
			TargetHeader: "Request-Id",
			Generator:    func() string { return ulid.Make().String() },
			RequestIDHandler: func(c echo.Context, rid string) {
				c.SetRequest(c.Request().WithContext(alog.AddAttr(
					c.Request().Context(),
					slog.String("request_id", rid)),
				))
			},
		}))

		dc.WebRouter = router
		dc.APIRouter = router.Group("/api")
	}

	return dc, nil
}

// openStorage connects the backend selected in the configuration.
// An empty backend is the same as MemoryBackend.
func (c *Container) openStorage(ctx context.Context, migrations Migrations) error {
	conf := c.Config

	switch conf.Storage.Backend {
	case PostgresBackend:
		pg, err := postgres.ConnectAndMigrate(ctx, postgresConfig(conf, migrations), c.TraceProvider)
		if err != nil {
			return fmt.Errorf("could not connect to postgres: %w", err)
		}

		c.pg = pg
		c.PGx = pg.PGx
	case SQLiteBackend:
		db, err := sqlite.OpenAndMigrate(ctx, sqlite.Config{Path: conf.SQLite.Path, Migrations: migrations.SQLite})
		if err != nil {
			return fmt.Errorf("could not open sqlite: %w", err)
		}

		c.SQLite = db
	case MemoryBackend, "":
		if conf.Memory.Dir == "" {
			break
		}

		store, err := arepo.NewJSONStore(conf.Memory.Dir)
		if err != nil {
			return fmt.Errorf("could not open memory store: %w", err)
		}

		c.Store = store
	default:
		return fmt.Errorf("%w: unknown storage backend: %s", ErrMissingDependency, conf.Storage.Backend)
	}

	c.Logger.LogAttrs(ctx, alog.LevelInfo, "storage ready",
		slog.String("backend", string(conf.Storage.Backend)),
	)

	return nil
}

// Migrate brings the schema of the configured backend to the latest version and closes the connection again.
// The memory backend has no schema, so it does nothing.
func Migrate(ctx context.Context, conf *Config, migrations Migrations) error {
	switch conf.Storage.Backend {
	case PostgresBackend:
		pg, err := postgres.ConnectAndMigrate(ctx, postgresConfig(conf, migrations), noop.NewTracerProvider())
		if err != nil {
			return fmt.Errorf("could not migrate postgres: %w", err)
		}

		return pg.Shutdown(ctx)
	case SQLiteBackend:
		db, err := sqlite.OpenAndMigrate(ctx, sqlite.Config{Path: conf.SQLite.Path, Migrations: migrations.SQLite})
		if err != nil {
			return fmt.Errorf("could not migrate sqlite: %w", err)
		}

		return db.Close() //nolint:wrapcheck // nothing to add
	default:
		return nil
	}
}

func postgresConfig(conf *Config, migrations Migrations) postgres.Config {
	return postgres.Config{
		User:       conf.Postgres.User,
		Password:   conf.Postgres.Password.Secret(),
		Database:   conf.Postgres.Database,
		Host:       conf.Postgres.Host,
		Port:       conf.Postgres.Port,
		SSLMode:    conf.Postgres.SSLMode,
		MaxConns:   conf.Postgres.MaxConns,
		Migrations: migrations.Postgres,
	}
}

func newLogger(conf *Config) *slog.Logger {
	opts := []alog.LoggerOpt{alog.WithLevel(alog.ParseLevel(conf.Log.Level))}

	var logger *slog.Logger

	if conf.Environment == LocalEnv {
		if conf.Log.LokiURL != "" {
			opts = append(opts, alog.WithHandler(alog.NewLokiHandler(alog.LokiHandlerOptions{
				PushURL: conf.Log.LokiURL,
				Labels:  map[string]string{"application": conf.ApplicationName},
			})))
		}

		logger = alog.NewDevelopment(opts...)
	} else {
		logger = alog.New(opts...)
	}

	return logger.With(
		slog.String("application_name", conf.ApplicationName),
		slog.String("instance_name", instanceName(conf)),
		slog.String("git_hash", gitHash()),
		slog.String("environment", string(conf.Environment)),
	)
}

// Start runs the web server and, if enabled, the status server in the background.
func (c *Container) Start(ctx context.Context) error {
	if err := c.EnsureAllDependenciesPresent(); err != nil {
		return err
	}

	c.Logger.LogAttrs(ctx, alog.LevelInfo, "starting all servers")

	c.startedAt = time.Now()

	if c.Config.HTTP.StatusEndpointEnabled {
		c.statusEndpoint = serveStatus(ctx, c)
	}

	go func() {
		err := c.WebRouter.Start(fmt.Sprintf(":%d", c.Config.HTTP.Port))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Logger.ErrorContext(ctx, "could not serve http", slog.String("err", err.Error()))
		}
	}()

	return nil
}

// Shutdown stops the servers first, so no request is using the storage when it is closed.
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.LogAttrs(ctx, alog.LevelInfo, "shutting down all servers")

	servers, sctx := errgroup.WithContext(ctx)

	servers.Go(func() error {
		return c.WebRouter.Shutdown(sctx)
	})

	if c.statusEndpoint != nil {
		servers.Go(func() error {
			return c.statusEndpoint.Shutdown(sctx)
		})
	}

	serversErr := servers.Wait()

	var storageErr error

	if c.pg != nil {
		storageErr = c.pg.Shutdown(ctx)
	}

	if c.SQLite != nil {
		storageErr = c.SQLite.Close()
	}

	var providers errgroup.Group

	providers.Go(func() error { return c.TraceProvider.Shutdown(ctx) })
	providers.Go(func() error { return c.MeterProvider.Shutdown(ctx) })

	return errors.Join(serversErr, storageErr, providers.Wait()) //nolint:wrapcheck // each error carries its source
}

func gitHash() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}

	return "unknown"
}

// instanceName falls back to the host name, if no name is configured.
func instanceName(conf *Config) string {
	if conf.InstanceName != "" {
		return conf.InstanceName
	}

	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return host
}
