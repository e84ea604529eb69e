// Package httpapi exposes the purchase and valuation use cases over a REST
// API. It is a thin adapter: requests are parsed into use-case inputs, domain
// errors are mapped to status codes, nothing more.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hindsightapp/hindsight-backend/internal/domain"
	"github.com/hindsightapp/hindsight-backend/internal/usecase/purchase"
)

// PurchaseService is the purchase use case consumed by the API
// Satisfied by *purchase.Service
type PurchaseService interface {
	Create(ctx context.Context, input purchase.CreateInput) (*domain.Purchase, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Purchase, error)
	List(ctx context.Context) ([]*domain.Purchase, error)
}

// ValuationService is the valuation use case consumed by the API
// Satisfied by *valuation.Service
type ValuationService interface {
	Compute(ctx context.Context, purchase *domain.Purchase) (*domain.Valuation, error)
}

// RateService exposes current BTC rates to the API
// Satisfied by *pricing.Resolver
type RateService interface {
	CurrentRate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
}

// Config holds server configuration
type Config struct {
	Port       int
	APIToken   string
	Log        zerolog.Logger
	Purchases  PurchaseService
	Valuations ValuationService
	Rates      RateService
}

// Server is the HTTP server
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	apiToken   string
	purchases  PurchaseService
	valuations ValuationService
	rates      RateService
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "httpapi").Logger(),
		apiToken:   cfg.APIToken,
		purchases:  cfg.Purchases,
		valuations: cfg.Valuations,
		rates:      cfg.Rates,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/purchases", func(r chi.Router) {
			r.With(s.requireToken).Post("/", s.handleCreatePurchase)
			r.Get("/", s.handleListPurchases)
			r.Get("/{id}", s.handleGetPurchase)
			r.Get("/{id}/valuation", s.handleGetValuation)
		})

		r.Get("/rates/current", s.handleCurrentRate)

		r.Route("/currencies", func(r chi.Router) {
			r.Get("/", s.handleListCurrencies)
			r.Get("/detect", s.handleDetectCurrency)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the underlying handler (used by tests)
func (s *Server) Router() http.Handler {
	return s.router
}
