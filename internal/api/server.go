// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/wildoasis/internal/core/booking"
	"github.com/taibuivan/wildoasis/internal/core/cabin"
	"github.com/taibuivan/wildoasis/internal/core/guest"
	"github.com/taibuivan/wildoasis/internal/core/setting"
	"github.com/taibuivan/wildoasis/internal/platform/config"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/middleware"
	"github.com/taibuivan/wildoasis/internal/users/apikey"
	"github.com/taibuivan/wildoasis/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here and one Route call below.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	Cabins   *cabin.Handler
	Guests   *guest.Handler
	Bookings *booking.Handler
	Settings *setting.Handler
	Users    *auth.Handler
	APIKeys  *apikey.Handler
}

// Dependencies are the cross-cutting collaborators of the middleware chain.
type Dependencies struct {
	// Access builds the per-route API key, session and role guards.
	Access *middleware.Access

	// Limiter backs the global rate limit.
	Limiter middleware.Limiter

	// Proxies are the reverse proxies allowed to name the client address.
	Proxies middleware.TrustedProxies

	// Registry receives the HTTP metrics. Nil disables /metrics.
	Registry *prometheus.Registry
}

// pollutionWhitelist lists the query parameters that may repeat.
var pollutionWhitelist = []string{
	"numNights", "numGuests", "cabinPrice", "extrasPrice", "totalPrice",
	"status", "name", "maxCapacity", "regularPrice", "discount",
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if deps.Registry != nil {
		r.Use(middleware.NewMetrics(deps.Registry).Handler)
	}
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chimw.CleanPath)
	r.Use(middleware.PanicRecovery())
	if cfg.IsDevelopment() {
		r.Use(middleware.ExposeErrors)
	}

	// # Infrastructure Endpoints
	// Unauthenticated health checks for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	}

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RateLimit(deps.Limiter, deps.Proxies))
		api.Use(chimw.Compress(constants.CompressionLevel))
		api.Use(chimw.Timeout(constants.GlobalRequestTimeout))
		api.Use(middleware.Sanitize)
		api.Use(middleware.ParameterPollution(pollutionWhitelist...))

		api.Route("/cabins", func(router chi.Router) { h.Cabins.RegisterRoutes(router, deps.Access) })
		api.Route("/guests", func(router chi.Router) { h.Guests.RegisterRoutes(router, deps.Access) })
		api.Route("/bookings", func(router chi.Router) { h.Bookings.RegisterRoutes(router, deps.Access) })
		api.Route("/settings", func(router chi.Router) { h.Settings.RegisterRoutes(router, deps.Access) })
		api.Route("/users", func(router chi.Router) { h.Users.RegisterRoutes(router, deps.Access) })
		api.Route("/api-management", func(router chi.Router) { h.APIKeys.RegisterRoutes(router, deps.Access) })

		api.NotFound(middleware.NotFound)
	})

	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.NotFound)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root router. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("api_server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
