package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hindsightapp/hindsight-backend/internal/adapter/httpapi"
	"github.com/hindsightapp/hindsight-backend/internal/adapter/provider"
	"github.com/hindsightapp/hindsight-backend/internal/adapter/repository/postgres"
	"github.com/hindsightapp/hindsight-backend/internal/config"
	"github.com/hindsightapp/hindsight-backend/internal/jobs"
	"github.com/hindsightapp/hindsight-backend/internal/scheduler"
	"github.com/hindsightapp/hindsight-backend/internal/usecase/pricing"
	"github.com/hindsightapp/hindsight-backend/internal/usecase/purchase"
	"github.com/hindsightapp/hindsight-backend/internal/usecase/valuation"
	"github.com/hindsightapp/hindsight-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "error"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting hindsight backend")

	// Setup database
	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories
	purchaseRepo := postgres.NewPurchaseRepository(db)
	rateCache := postgres.NewRateCacheRepository(db)

	// Initialize upstream providers
	binance := provider.NewBinanceClient(cfg.BinanceURL)
	coinAPI := provider.NewCoinAPIClient(cfg.CoinAPIURL, cfg.CoinAPIKey)
	frankfurter := provider.NewFrankfurterClient(cfg.FrankfurterURL)

	// Initialize services (use cases)
	resolver := pricing.NewResolver(binance, coinAPI, frankfurter, rateCache, log)
	purchaseService := purchase.NewService(purchaseRepo)
	valuationService := valuation.NewService(resolver)

	// Start background rate warmer
	sched := scheduler.New(log)
	if cfg.WarmerEnabled {
		warmer := jobs.NewRateWarmer(resolver, log)
		if err := sched.AddJob("@every 5m", warmer); err != nil {
			log.Fatal().Err(err).Msg("Failed to register rate warmer")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Start HTTP server
	srv := httpapi.New(httpapi.Config{
		Port:       cfg.Port,
		APIToken:   cfg.APIToken,
		Log:        log,
		Purchases:  purchaseService,
		Valuations: valuationService,
		Rates:      resolver,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
