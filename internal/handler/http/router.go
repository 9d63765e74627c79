// Package http wires the service into a chi router: JSON request decoding,
// validation, cookie handling, and response shaping.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sheking94/not-todo-api/internal/service"
	"github.com/sheking94/not-todo-api/pkg/health"
	"github.com/sheking94/not-todo-api/pkg/middleware"
)

// Handler bundles the HTTP handlers and their shared collaborators.
type Handler struct {
	svc     *service.Service
	cookies CookieSettings
}

// NewHandler creates the HTTP handler set.
func NewHandler(svc *service.Service, cookies CookieSettings) *Handler {
	return &Handler{svc: svc, cookies: cookies}
}

// RouterConfig holds the collaborators the router needs beyond the handlers.
type RouterConfig struct {
	ServiceName    string
	Environment    string
	AllowedOrigins []string
	Verify         middleware.TokenVerifier
	Health         *health.Handler
	Logger         *slog.Logger
}

// NewRouter builds the full route tree.
//
// The identity middleware runs globally and never rejects; protected subtrees
// gate on RequireIdentity. This keeps one pipeline for public and protected
// routes, with the identity (when present) available to request logging.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		Environment:      cfg.Environment,
	}))
	r.Use(middleware.Identity(cfg.Verify))
	r.Use(middleware.RequestLogger(cfg.Logger))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.Register)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireIdentity)
				r.Get("/me", h.Me)
				r.Put("/me/password", h.ChangePassword)
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Post("/refresh", h.RefreshSession)
			r.Delete("/logout", h.DeleteSession)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Use(middleware.RequireIdentity)
			r.Post("/", h.CreateTodo)
			r.Get("/", h.ListTodos)
			r.Get("/{id}", h.GetTodo)
			r.Put("/{id}", h.UpdateTodo)
			r.Delete("/{id}", h.DeleteTodo)
		})
	})

	return r
}
