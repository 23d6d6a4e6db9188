package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alfredjeanlab/confighelper/internal/events"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultMaxRequestBytes = 10 << 20
	defaultMaxYAMLBytes    = 5 << 20
)

// Options configures a Server. Zero values select the defaults.
type Options struct {
	// StaticDir is the asset root for the SPA. Empty disables static serving.
	StaticDir string

	MaxRequestBytes int64 // raw body ceiling, default 10 MiB
	MaxYAMLBytes    int64 // ceiling on the import "config" text, default 5 MiB

	Publisher events.Publisher     // default events.NoopPublisher
	Logger    *slog.Logger         // default slog.Default()
	Registry  *prometheus.Registry // default a fresh registry
}

// Server handles the config helper HTTP API and serves the editor assets.
// It holds configuration only; no request state survives a request.
type Server struct {
	opts      Options
	logger    *slog.Logger
	publisher events.Publisher
	metrics   *metrics

	metricsHandler http.Handler
	staticHandler  http.Handler

	// apiRoutes maps an exact API path to its handlers keyed by method.
	apiRoutes map[string]map[string]http.HandlerFunc
}

// NewServer returns a Server with opts applied over the defaults.
func NewServer(opts Options) *Server {
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = defaultMaxRequestBytes
	}
	if opts.MaxYAMLBytes <= 0 {
		opts.MaxYAMLBytes = defaultMaxYAMLBytes
	}
	if opts.Publisher == nil {
		opts.Publisher = &events.NoopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		opts:      opts,
		logger:    opts.Logger,
		publisher: opts.Publisher,
		metrics:   newMetrics(opts.Registry),

		metricsHandler: promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}),
	}
	s.staticHandler = handlers.CompressHandler(http.HandlerFunc(s.serveAsset))
	s.apiRoutes = map[string]map[string]http.HandlerFunc{
		"/api/health": {http.MethodGet: s.handleHealth},
		"/api/init":   {http.MethodGet: s.handleInit},
		"/api/import": {http.MethodPost: s.handleImport},
		"/api/export": {http.MethodPost: s.handleExport},
	}
	return s
}

// publish emits a conversion event. Failures are logged and never affect the
// response.
func (s *Server) publish(ctx context.Context, topic string, event events.Conversion) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "request_id", event.RequestID, "error", err)
	}
}
