// Copyright (c) 2026 Veranda Systems. All rights reserved.

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

	"github.com/verandahq/veranda/internal/core/building"
	"github.com/verandahq/veranda/internal/core/commonspace"
	"github.com/verandahq/veranda/internal/core/condominium"
	"github.com/verandahq/veranda/internal/core/payment"
	"github.com/verandahq/veranda/internal/core/reservation"
	"github.com/verandahq/veranda/internal/core/resident"
	"github.com/verandahq/veranda/internal/core/unit"
	"github.com/verandahq/veranda/internal/platform/config"
	"github.com/verandahq/veranda/internal/platform/constants"
	"github.com/verandahq/veranda/internal/platform/middleware"
	"github.com/verandahq/veranda/internal/users/account"
	"github.com/verandahq/veranda/internal/users/auth"
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
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle (register, login, refresh, logout).
	Auth *auth.Handler

	// Account handles self-service profiles and admin user management.
	Account *account.Handler

	// Condominium manages condominiums and their memberships.
	Condominium *condominium.Handler

	// Building manages buildings within a condominium.
	Building *building.Handler

	// Unit manages units within a building.
	Unit *unit.Handler

	// Resident manages the people living in a condominium.
	Resident *resident.Handler

	// CommonSpace manages bookable shared facilities.
	CommonSpace *commonspace.Handler

	// Reservation manages common space bookings and their status machine.
	Reservation *reservation.Handler

	// Payment manages payments and condominium-wide common expenses.
	Payment *payment.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix. Everything
	// outside /auth requires a valid access token.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Account.Routes())

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth)

			protected.Route("/condominiums", func(condominiums chi.Router) {
				h.Condominium.RegisterRoutes(condominiums)

				condominiums.Route("/{condominiumID}/buildings", h.Building.RegisterRoutes)
				condominiums.Route("/{condominiumID}/residents", h.Resident.RegisterRoutes)
				condominiums.Route("/{condominiumID}/common-spaces", h.CommonSpace.RegisterRoutes)
				condominiums.Route("/{condominiumID}/common-expenses", h.Payment.RegisterExpenseRoutes)
			})

			protected.Route("/buildings/{buildingID}/units", h.Unit.RegisterRoutes)
			protected.Route("/common-spaces/{commonSpaceID}/reservations", h.Reservation.RegisterRoutes)
			protected.Route("/payments", h.Payment.RegisterRoutes)
		})
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

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
