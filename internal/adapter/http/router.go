package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	LedgerHandler    *handler.LedgerHandler
	TransferHandler  *handler.TransferHandler
	StatementHandler *handler.StatementHandler
	ClientHandler    *handler.ClientHandler
	HealthHandler    *handler.HealthHandler

	TokenVerifier middleware.TokenVerifier
	UserLoader    middleware.UserLoader

	// Optional
	Logger           *zerolog.Logger
	HTTPMetrics      *middleware.HTTPMetrics
	MetricsHandler   http.Handler
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	}
	r.Use(middleware.Recovery)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	var idempotency func(http.Handler) http.Handler
	if cfg.IdempotencyStore != nil {
		idempotency = middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Registration is the only unauthenticated call. Idempotency keys need
		// a caller to belong to, so it runs without them.
		r.Post("/clients", cfg.ClientHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier, cfg.UserLoader))
			if idempotency != nil {
				r.Use(idempotency)
			}

			r.Get("/me", cfg.AccountHandler.Me)
			r.Get("/accounts/{id}", cfg.AccountHandler.Get)

			// Client money movements
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleClient))

				r.Post("/deposits", cfg.LedgerHandler.Deposit)
				r.Post("/withdrawals", cfg.LedgerHandler.Withdraw)
				r.Post("/investments", cfg.LedgerHandler.Invest)
				r.Get("/investments", cfg.StatementHandler.Investments)
				r.Get("/entries", cfg.StatementHandler.Entries)
				r.Post("/transfers/prepare", cfg.TransferHandler.Prepare)
				r.Post("/transfers", cfg.TransferHandler.Commit)
			})

			r.Get("/clients/{id}", cfg.ClientHandler.Get)

			// Manager operations
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleManager))

				r.Get("/accounts", cfg.AccountHandler.Lookup)
				r.Get("/accounts/{id}/owner", cfg.ClientHandler.AccountOwner)
				r.Get("/clients", cfg.ClientHandler.Search)
				r.Put("/clients/{id}", cfg.ClientHandler.Update)
				r.Delete("/clients/{id}", cfg.ClientHandler.Delete)
			})
		})
	})

	return r
}
