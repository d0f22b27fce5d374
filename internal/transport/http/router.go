// Package httptransport assembles the public HTTP surface: shared middleware,
// operational endpoints and the module handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tempo/internal/platform/metrics"
	"tempo/pkg/platform/httputil"
	"tempo/pkg/platform/middleware/device"
	"tempo/pkg/platform/middleware/requestid"
	"tempo/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Config holds what the router needs from main.
type Config struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Health   map[string]HealthCheck
	Handlers []Registrar
}

// NewRouter wires middleware, /health, /metrics and every module handler.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(device.Middleware)
	r.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/health", healthHandler(cfg.Health, cfg.Logger))
	r.Handle("/metrics", metrics.Handler())

	for _, h := range cfg.Handlers {
		h.Register(r)
	}
	return r
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = "down"
				if logger != nil {
					logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				}
				continue
			}
			results[name] = "ok"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":       http.StatusText(status),
			"dependencies": results,
		})
	}
}
