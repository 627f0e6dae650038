package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bizfilings/internal/platform/metrics"
	"bizfilings/internal/platform/middleware"
	"bizfilings/pkg/platform/httputil"
	"bizfilings/pkg/platform/middleware/metadata"
	"bizfilings/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// RouterConfig collects what NewRouter wires together.
type RouterConfig struct {
	Sessions SessionService
	Filings  FilingService
	Logger   *slog.Logger
	Metrics  *metrics.Metrics

	// Issuer mounts POST /dev/credentials when set.
	Issuer CredentialIssuer

	// Checks are run by /readyz, keyed by dependency name.
	Checks map[string]HealthCheck

	// Clock overrides the request clock; tests use it to pin "now".
	Clock func() time.Time
}

// NewRouter wires all public endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.WithClock(clock))
	r.Use(middleware.AccessLog(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recovery(cfg.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(cfg.Checks, cfg.Logger))
	r.Handle("/metrics", promhttp.Handler())

	sessions := NewSessionHandler(cfg.Sessions, cfg.Logger)
	filings := NewFilingHandler(cfg.Filings, cfg.Logger)

	r.Route("/v1", func(r chi.Router) {
		sessions.RegisterPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(cfg.Sessions, cfg.Logger))
			sessions.Register(r)
			filings.Register(r)
		})
	})

	if cfg.Issuer != nil {
		NewDevHandler(cfg.Issuer, cfg.Logger).Register(r)
	}
	return r
}

func readiness(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
				report[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}
		httputil.WriteJSON(w, status, report)
	}
}
