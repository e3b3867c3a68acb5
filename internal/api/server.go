// Copyright (c) 2026 LPPM Portal. All rights reserved.
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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/lppm/internal/core/community"
	"github.com/taibuivan/lppm/internal/core/dashboard"
	"github.com/taibuivan/lppm/internal/core/program"
	"github.com/taibuivan/lppm/internal/core/proposal"
	"github.com/taibuivan/lppm/internal/core/review"
	"github.com/taibuivan/lppm/internal/platform/config"
	"github.com/taibuivan/lppm/internal/platform/constants"
	"github.com/taibuivan/lppm/internal/platform/middleware"
	"github.com/taibuivan/lppm/internal/users/account"
	"github.com/taibuivan/lppm/internal/users/auth"
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
type Handlers struct {
	// Liveness is the /health handler and always returns 200 while the process is up.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler and returns 200 when Postgres and Redis answer.
	Readiness http.HandlerFunc

	// Auth handles login, logout, refresh and the caller's own identity.
	Auth *auth.Handler

	// Account handles user administration and profile edits.
	Account *account.Handler

	// Program manages the study program catalog.
	Program *program.Handler

	// Proposal and Community handle the two submission kinds.
	Proposal  *proposal.Handler
	Community *community.Handler

	// Review is mounted under both submission kinds.
	Review *review.Handler

	// Dashboard serves the aggregate counters.
	Dashboard *dashboard.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. ctx bounds background work such as the rate
// limiter's pruning loop.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, authenticator middleware.RequestAuthenticator, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecureHeaders(cfg.IsDevelopment()))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.Authenticate(authenticator))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth)

			protected.Route("/programs", h.Program.RegisterRoutes)

			protected.Route("/proposals", func(proposals chi.Router) {
				h.Proposal.RegisterRoutes(proposals)
				proposals.Route("/{id}/reviews", h.Review.Routes(review.TargetProposal))
			})

			protected.Route("/community-services", func(services chi.Router) {
				h.Community.RegisterRoutes(services)
				services.Route("/{id}/reviews", h.Review.Routes(review.TargetCommunityService))
			})

			protected.Route("/dashboard", h.Dashboard.RegisterRoutes)
		})

		api.Mount("/", h.Account.Routes())
	})

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

// Handler exposes the routed handler, for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
