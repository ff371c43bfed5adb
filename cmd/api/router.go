package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/smart-finance-tracker/pkg/middleware"
)

// SetupRouter configures every ingestion, management, and utility route and
// returns the composed HTTP handler. Follows the teacher's router.go shape
// (interceptor chain + CORS wrapper + utility routes) with Connect RPC
// replaced by plain net/http.ServeMux handlers.
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	registerIngestionRoutes(mux, deps)
	registerManagementRoutes(mux, deps)
	registerUtilityRoutes(mux, deps)

	tracer := otel.GetTracerProvider().Tracer("ingestion/api")

	var rateLimiter func(http.Handler) http.Handler
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)), deps.Config.Server.RateLimitBurst)
		rateLimiter = middleware.RateLimit(limiter)
	} else {
		rateLimiter = func(next http.Handler) http.Handler { return next }
	}

	chain := middleware.Chain(
		middleware.RequestID("X-Request-ID"),
		middleware.Tracing(tracer),
		middleware.Recovery(deps.Logger),
		middleware.Logging(deps.Logger),
		rateLimiter,
		middleware.Metrics(),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           7200,
	})

	return corsHandler.Handler(chain(mux))
}

// registerIngestionRoutes wires the inbound ingestion endpoints.
func registerIngestionRoutes(mux *http.ServeMux, deps *Dependencies) {
	h := deps.IngestionHandler
	mux.HandleFunc("POST /v1/ingest/sms", h.SMS)
	mux.HandleFunc("POST /v1/ingest/email", h.Email)
	mux.HandleFunc("POST /v1/ingest/file", h.File)
	mux.HandleFunc("POST /v1/ingest/cas", h.CAS)
	deps.Logger.Info("registered ingestion routes", "paths", "/v1/ingest/{sms,email,file,cas}")
}

// registerManagementRoutes wires the configuration/inspection endpoints.
func registerManagementRoutes(mux *http.ServeMux, deps *Dependencies) {
	h := deps.ManagementHandler

	mux.HandleFunc("GET /v1/config/ai", h.GetAIConfig)
	mux.HandleFunc("POST /v1/config/ai", h.UpsertAIConfig)
	mux.HandleFunc("POST /v1/config/mapping", h.UpsertMapping)

	mux.HandleFunc("GET /v1/patterns", h.ListPatterns)
	mux.HandleFunc("POST /v1/patterns", h.CreatePattern)
	mux.HandleFunc("POST /v1/patterns/test", h.TestPattern)
	mux.HandleFunc("GET /v1/patterns/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.GetPattern(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("PUT /v1/patterns/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.UpdatePattern(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("DELETE /v1/patterns/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.DeletePattern(w, r, r.PathValue("id"))
	})

	mux.HandleFunc("GET /v1/config/aliases", h.ListAliases)
	mux.HandleFunc("POST /v1/config/aliases", h.CreateAlias)
	mux.HandleFunc("DELETE /v1/config/aliases/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.DeleteAlias(w, r, r.PathValue("id"))
	})

	mux.HandleFunc("GET /v1/logs", h.ListLogs)
	mux.HandleFunc("GET /v1/logs/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.GetLog(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("GET /v1/stats", h.Stats)

	deps.Logger.Info("registered management routes", "paths", "/v1/{config,patterns,logs,stats}/*")
}

// registerUtilityRoutes registers health check, readiness, and metrics
// routes, unchanged in shape from the teacher's router.go.
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if err := deps.DB.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, writeErr := w.Write([]byte("database unhealthy")); writeErr != nil {
				deps.Logger.Error("failed to write health response", slog.Any("error", writeErr))
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			deps.Logger.Error("failed to write health response", slog.Any("error", err))
		}
	})
	deps.Logger.Info("registered health check", "path", "/health")

	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ready")); err != nil {
			deps.Logger.Error("failed to write readiness response", slog.Any("error", err))
		}
	})
	deps.Logger.Info("registered readiness check", "path", "/ready")

	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}
