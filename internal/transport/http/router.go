package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ssicli/internal/middleware"
)

// RouterConfig wires the reporting router
type RouterConfig struct {
	Handler        *AnalyticsHandler
	Logger         *slog.Logger
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter builds the chi router with the full middleware chain and the
// Prometheus endpoint
func NewRouter(cfg RouterConfig) chi.Router {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewRequestMetrics(registry)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(limiter.Handler)
	r.Use(metrics.Handler)

	r.Route("/api", func(r chi.Router) {
		cfg.Handler.RegisterRoutes(r)
	})
	r.Method("GET", "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
