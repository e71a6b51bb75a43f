package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-wallet/config"
	httpHandler "marketplace-wallet/internal/adapter/http/handler"
	"marketplace-wallet/internal/adapter/storage/memory"
	redisStorage "marketplace-wallet/internal/adapter/storage/redis"
	"marketplace-wallet/internal/core/domain"
	"marketplace-wallet/internal/core/ports"
	"marketplace-wallet/internal/service"
	"marketplace-wallet/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Marketplace Wallet")

	ctx := context.Background()

	params, err := buildParams(cfg.Wallet)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid wallet parameters")
	}

	seed, err := buildSeed(cfg.Wallet.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid wallet seed")
	}

	// Redis is optional: without it the engine still serves requests, but
	// idempotent replay and rate limiting are disabled.
	var (
		resultCache    ports.ResultCache
		rateLimitStore *redisStorage.RateLimitStore
		healthCheckers []ports.HealthChecker
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		resultCache = redisStorage.NewResultCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Info().Msg("Redis disabled, running without result cache and rate limiting")
	}

	// Initialize in-memory wallet store
	store := memory.NewStore(seed)

	// Initialize core services
	walletSvc := service.NewWalletService(store, resultCache, params, log)
	reportingSvc := service.NewReportingService(store)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		ReportingSvc:   reportingSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// buildParams parses the decimal-string wallet parameters from config.
func buildParams(cfg config.WalletConfig) (service.Params, error) {
	transferFeeRate, err := decimal.NewFromString(cfg.TransferFeeRate)
	if err != nil {
		return service.Params{}, fmt.Errorf("transfer_fee_rate: %w", err)
	}
	platformFeeRate, err := decimal.NewFromString(cfg.PlatformFeeRate)
	if err != nil {
		return service.Params{}, fmt.Errorf("platform_fee_rate: %w", err)
	}
	kycThreshold, err := decimal.NewFromString(cfg.KYCThreshold)
	if err != nil {
		return service.Params{}, fmt.Errorf("kyc_threshold: %w", err)
	}
	return service.Params{
		TransferFeeRate: transferFeeRate,
		PlatformFeeRate: platformFeeRate,
		KYCThreshold:    kycThreshold,
		ResultCacheTTL:  cfg.ResultCacheTTL,
	}, nil
}

// buildSeed converts configured opening balances into the store's seed
// function. Every lazily created wallet starts with these balances.
func buildSeed(seed map[string]config.SeedBalance) (memory.SeedFunc, error) {
	if len(seed) == 0 {
		return nil, nil
	}

	balances := make(map[domain.Currency]domain.Balance, len(seed))
	for code, sb := range seed {
		currency, ok := domain.ParseCurrency(code)
		if !ok {
			return nil, fmt.Errorf("unsupported seed currency %q", code)
		}
		available := decimal.Zero
		if sb.Available != "" {
			var err error
			available, err = decimal.NewFromString(sb.Available)
			if err != nil {
				return nil, fmt.Errorf("seed %s available: %w", code, err)
			}
		}
		pending := decimal.Zero
		if sb.Pending != "" {
			var err error
			pending, err = decimal.NewFromString(sb.Pending)
			if err != nil {
				return nil, fmt.Errorf("seed %s pending: %w", code, err)
			}
		}
		balances[currency] = domain.Balance{Available: available, Pending: pending}
	}

	return func(string) map[domain.Currency]domain.Balance {
		return balances
	}, nil
}
