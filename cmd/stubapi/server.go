package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bjaus/stubapi/internal/api"
	"github.com/bjaus/stubapi/internal/config"
	"github.com/bjaus/stubapi/internal/gateway"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "stubapi"

// newRouter assembles the gateway for mode with the middleware chain that
// cfg enables. Configured paths that collide with a route are an error.
func newRouter(cfg config.Config, logger *slog.Logger, mode gateway.Mode) (*api.Router, error) {
	r := gateway.New(
		gateway.WithMode(mode),
		gateway.WithVersion(version),
	)

	// Recovery sits inside RequestID and Logger so a panic is logged with
	// its request ID and still gets an access log entry.
	r.Use(
		api.RequestID(),
		api.Logger(logger),
		api.Recovery(logger),
		api.Secure(),
	)
	if len(cfg.CORS.Origins) > 0 {
		r.Use(api.CORS(api.CORSConfig{AllowOrigins: cfg.CORS.Origins}))
	}
	if cfg.RateLimit.RPS > 0 {
		r.Use(api.RateLimit(api.RateLimitConfig{Rate: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst}))
	}
	if cfg.Server.RequestTimeout > 0 {
		r.Use(api.Timeout(cfg.Server.RequestTimeout))
	}
	if cfg.Server.MaxBodyBytes > 0 {
		r.Use(api.BodyLimit(cfg.Server.MaxBodyBytes))
	}

	if cfg.Profiling.Enabled {
		if err := api.Profiling(r, cfg.Profiling.Path); err != nil {
			return nil, fmt.Errorf("profiling.path: %w", err)
		}
	}

	// Metrics goes last so it sees the request the mux annotates with the
	// matched pattern.
	if cfg.Metrics.Enabled {
		m := api.NewMetrics(metricsNamespace)
		if err := api.Mount(r, http.MethodGet, cfg.Metrics.Path, m.Handler().ServeHTTP, api.WithHidden()); err != nil {
			return nil, fmt.Errorf("metrics.path: %w", err)
		}
		r.Use(m.Middleware())
	}

	return r, nil
}
