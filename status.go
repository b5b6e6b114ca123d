package paddock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPath = "/metrics"
	statusPath = "/status"
)

// StatusHandler serves the system status as JSON.
// It answers 503, if the storage cannot be reached.
func StatusHandler(di *Container) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := getSystemStatus(r.Context(), di)

		code := http.StatusOK
		if status.Storage.Status != online {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)

		_ = json.NewEncoder(w).Encode(status)
	})
}

// serveStatus starts a separate server for the status and the prometheus metrics,
// so they are not exposed on the public port.
func serveStatus(ctx context.Context, di *Container) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(metricPath, promhttp.HandlerFor(di.Registry, promhttp.HandlerOpts{ //nolint:exhaustruct // use defaults
		EnableOpenMetrics: true, // to enable Exemplars in the export format
	}))
	mux.Handle(statusPath, StatusHandler(di))

	srv := &http.Server{ //nolint:exhaustruct // use defaults
		Addr:              fmt.Sprintf(":%d", di.Config.HTTP.StatusEndpointPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	di.Logger.InfoContext(ctx, "serving status endpoint",
		slog.String("addr", srv.Addr),
		slog.String("metric_path", metricPath),
		slog.String("status_path", statusPath),
	)

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			di.Logger.DebugContext(ctx, "error serving http", slog.String("err", err.Error()))
		}
	}()

	return srv
}

const online = "online"

type systemStatus struct {
	Status          string        `json:"status"`
	Time            time.Time     `json:"time"`
	Uptime          string        `json:"uptime"`
	GitHash         string        `json:"gitHash"`
	ApplicationName string        `json:"applicationName"`
	InstanceName    string        `json:"instanceName"`
	Environment     Environment   `json:"environment"`
	Web             HTTP          `json:"web"`
	Storage         storageStatus `json:"storage"`
}

type storageStatus struct {
	Backend  Backend   `json:"backend"`
	Postgres *Postgres `json:"postgres,omitempty"`
	SQLite   *SQLite   `json:"sqlite,omitempty"`
	Memory   *Memory   `json:"memory,omitempty"`
	Status   string    `json:"status"`
}

func getSystemStatus(ctx context.Context, di *Container) systemStatus {
	conf := di.Config

	storage := storageStatus{Backend: conf.Storage.Backend, Status: online}

	var err error

	switch {
	case di.PGx != nil:
		storage.Postgres = &conf.Postgres
		err = di.PGx.Ping(ctx)
	case di.SQLite != nil:
		storage.SQLite = &conf.SQLite
		err = di.SQLite.PingContext(ctx)
	default:
		storage.Memory = &conf.Memory
	}

	if err != nil {
		storage.Status = fmt.Errorf("err: %w", err).Error()
	}

	var uptime time.Duration
	if !di.startedAt.IsZero() {
		uptime = time.Since(di.startedAt).Round(time.Second)
	}

	return systemStatus{
		Status:          online,
		Time:            time.Now(),
		Uptime:          uptime.String(),
		GitHash:         gitHash(),
		ApplicationName: conf.ApplicationName,
		InstanceName:    instanceName(conf),
		Environment:     conf.Environment,
		Web:             conf.HTTP,
		Storage:         storage,
	}
}
