package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/symptom-advisor/internal/chat"
	httpmiddleware "github.com/wolfman30/symptom-advisor/internal/http/middleware"
	"github.com/wolfman30/symptom-advisor/internal/learning"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// CatalogCache drops the cached catalog snapshot.
type CatalogCache interface {
	Invalidate(ctx context.Context) error
}

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *chat.Handler
	LearningHandler    *learning.Handler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// ChatLimiter throttles the public chat routes when set.
	ChatLimiter httpmiddleware.Limiter

	// HealthChecks are run by /health; any failure reports 503.
	HealthChecks map[string]HealthCheck

	// CatalogCache enables POST /admin/catalog/refresh.
	CatalogCache CatalogCache
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler(cfg.HealthChecks))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.ChatHandler != nil {
			public.Group(func(chatRoutes chi.Router) {
				if cfg.ChatLimiter != nil {
					chatRoutes.Use(httpmiddleware.RateLimit(cfg.ChatLimiter, cfg.Logger))
				}
				chatRoutes.Mount("/v1/chat", cfg.ChatHandler.Routes())
			})
		}
	})

	// Admin routes (protected by HMAC JWT carrying the reviewer id)
	if cfg.AdminAuthSecret != "" && (cfg.LearningHandler != nil || cfg.CatalogCache != nil) {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.LearningHandler != nil {
				admin.Mount("/learning", cfg.LearningHandler.Routes())
			}
			if cfg.CatalogCache != nil {
				admin.Post("/catalog/refresh", catalogRefreshHandler(cfg.CatalogCache, cfg.Logger))
			}
		})
	}

	return r
}

// catalogRefreshHandler lets an operator force the next chat request to
// reload the catalog after the storefront changes.
func catalogRefreshHandler(cache CatalogCache, logger *logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cache.Invalidate(r.Context()); err != nil {
			logger.Error("failed to refresh catalog cache", "error", err)
			http.Error(w, "Failed to refresh catalog", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{"status": "ok"}
		status := http.StatusOK

		if len(checks) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()

			results := make(map[string]string, len(checks))
			for name, check := range checks {
				if err := check(ctx); err != nil {
					results[name] = err.Error()
					status = http.StatusServiceUnavailable
					response["status"] = "degraded"
					continue
				}
				results[name] = "ok"
			}
			response["checks"] = results
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}
}
