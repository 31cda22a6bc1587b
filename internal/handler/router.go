// Package handler serves the local diagnostics endpoints: health, readiness,
// Prometheus metrics, a JSON dump of the state containers and, when wired,
// the chat endpoint.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/infra/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter exposes the backend circuit breaker state.
type BreakerReporter interface {
	BreakerState() string
}

// Deps are the sources the diagnostics endpoints read. Any may be nil.
type Deps struct {
	Storage Pinger
	Backend BreakerReporter
	// State returns the container snapshots served at /v1/state.
	State func() any
	// Chat, when set, is mounted at POST /v1/chat.
	Chat http.Handler
	// Token, when set, is required as a bearer token on /v1 routes.
	Token string
}

// ServiceHealth is the health of one dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latency_ms"`
	LastChecked string `json:"last_checked"`
	Detail      string `json:"detail,omitempty"`
}

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}

// NewRouter creates the diagnostics router.
func NewRouter(deps Deps, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(deps))
	r.Get("/readyz", readyzHandler(deps, logger))
	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}

	// --- Introspection ---
	r.Route("/v1", func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerTokenMiddleware(deps.Token, logger))
		}
		r.Get("/state", stateHandler(deps))
		r.Get("/metrics/client", clientMetricsHandler(metrics))
		if deps.Chat != nil {
			r.Method(http.MethodPost, "/chat", deps.Chat)
		}
	})

	return r
}

func healthzHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /healthz")
		defer span.End()

		now := time.Now().Format(time.RFC3339)
		services := []ServiceHealth{
			{Name: "sarathi-client", Status: "healthy", LastChecked: now},
		}

		if deps.Storage != nil {
			start := time.Now()
			err := deps.Storage.Ping(ctx)
			sh := ServiceHealth{Name: "storage", Status: "healthy", LatencyMs: time.Since(start).Milliseconds(), LastChecked: now}
			if err != nil {
				sh.Status = "unhealthy"
				sh.Detail = err.Error()
			}
			services = append(services, sh)
		}

		if deps.Backend != nil {
			sh := ServiceHealth{Name: "sarathi-api", Status: "healthy", LastChecked: now}
			switch state := deps.Backend.BreakerState(); state {
			case "open":
				sh.Status = "unhealthy"
				sh.Detail = "circuit breaker " + state
			case "half-open":
				sh.Status = "degraded"
				sh.Detail = "circuit breaker " + state
			}
			services = append(services, sh)
		}

		overall := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overall = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overall = "degraded"
			}
		}

		status := http.StatusOK
		if overall == "unhealthy" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, HealthResponse{Status: overall, Services: services})
	}
}

// readyzHandler reports ready once local storage answers.
func readyzHandler(deps Deps, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Storage != nil {
			if err := deps.Storage.Ping(r.Context()); err != nil {
				logger.Warn("diag: storage not ready", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "storage unavailable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func stateHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.State == nil {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, deps.State())
	}
}

func clientMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if metrics == nil {
			writeError(w, http.StatusNotFound, "metrics disabled")
			return
		}
		writeJSON(w, http.StatusOK, metrics.GetSnapshot())
	}
}
