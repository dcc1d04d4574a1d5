package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookline/internal/platform/health"
	"bookline/internal/platform/middleware"
)

// NewRouter wires all public endpoints with middleware.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Device)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	// Auth endpoints, rate limited per IP against credential stuffing.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/auth/sign-in", h.handleSignIn)
		r.Post("/auth/sign-up", h.handleSignUp)
		r.Post("/auth/sign-out", h.handleSignOut)
		r.Post("/auth/oauth/{provider}", h.handleOAuthSignIn)
	})

	// Protected views sit behind the route guard.
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireSession)
		r.Get("/me", h.handleMe)
		r.Get("/bookings", h.handleBookings)
	})

	// Root-path visits resolve to a landing area by user type; unmatched paths
	// fall back to the same rule (no distinct not-found view).
	r.Get("/", h.guard.RedirectRoot)
	r.NotFound(h.guard.RedirectRoot)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
