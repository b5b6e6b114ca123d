package alog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/afiskon/promtail-client/promtail"
)

const defaultLokiPushURL = "http://localhost:3100/api/prom/push"

type LokiHandlerOptions struct {
	Labels  map[string]string
	PushURL string
}

// NewLokiHandler ships records to a local Loki instance.
// Use it only for local development: in production log to stdout
// and let the container runtime ship the logs.
//
// If Loki is not reachable, records are dropped and the connection is retried in the background.
func NewLokiHandler(opt LokiHandlerOptions) *LokiHandler {
	conf := promtailConfig(opt)
	buf := &bytes.Buffer{}

	handler := &LokiHandler{
		mu:     &sync.Mutex{},
		client: connectLoki(conf),
		renderer: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       LevelDebug,
			ReplaceAttr: MapLogLevelsToName,
		}),
		output: buf,
	}

	if handler.client == nil {
		go handler.retry(conf)
	}

	return handler
}

func promtailConfig(opt LokiHandlerOptions) promtail.ClientConfig {
	if opt.PushURL == "" {
		opt.PushURL = defaultLokiPushURL
	}

	if len(opt.Labels) == 0 {
		opt.Labels = map[string]string{"service": "paddock"}
	}

	keys := make([]string, 0, len(opt.Labels))
	for k := range opt.Labels {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, fmt.Sprintf("%s=%q", k, opt.Labels[k]))
	}

	return promtail.ClientConfig{
		PushURL:            opt.PushURL,
		BatchWait:          time.Second,
		BatchEntriesNumber: 1,
		SendLevel:          promtail.DEBUG,
		PrintLevel:         promtail.DISABLE,
		Labels:             "{" + strings.Join(labels, ",") + "}",
	}
}

// connectLoki pings Loki first, because promtail does not report connection errors.
func connectLoki(conf promtail.ClientConfig) promtail.Client { //nolint:ireturn // promtail only returns the interface
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, conf.PushURL, nil)
	if err != nil {
		return nil
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}

	_ = res.Body.Close()

	client, _ := promtail.NewClientJson(conf) // always returns a nil error

	return client
}

type LokiHandler struct {
	mu     *sync.Mutex
	client promtail.Client

	renderer slog.Handler
	output   *bytes.Buffer
}

var _ slog.Handler = (*LokiHandler)(nil)

func (l *LokiHandler) retry(conf promtail.ClientConfig) {
	const interval = 15 * time.Second

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		client := connectLoki(conf)
		if client == nil {
			continue
		}

		l.mu.Lock()
		l.client = client
		l.mu.Unlock()

		return
	}
}

func (l *LokiHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (l *LokiHandler) Handle(ctx context.Context, record slog.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client == nil {
		return nil
	}

	if err := l.renderer.Handle(ctx, record); err != nil {
		return fmt.Errorf("could not render record for loki: %w", err)
	}

	// attributes are not sent as labels: high cardinality breaks loki
	l.client.Infof("%s", strings.TrimSpace(l.output.String()))
	l.output.Reset()

	return nil
}

func (l *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LokiHandler{
		mu:       l.mu,
		client:   l.client,
		renderer: l.renderer.WithAttrs(attrs),
		output:   l.output,
	}
}

func (l *LokiHandler) WithGroup(name string) slog.Handler {
	return &LokiHandler{
		mu:       l.mu,
		client:   l.client,
		renderer: l.renderer.WithGroup(name),
		output:   l.output,
	}
}
