package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/api"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/cache"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/config"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/database"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/drip"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/logging"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/payment"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/repository"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/scheduler"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/service"
	"github.com/ndewijer/DRIP-Screener-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // Nothing useful to do if flushing fails on exit
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	// Open, migrate and seed the database
	db, err := database.Setup(ctx, cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to set up database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database", zap.String("path", cfg.Database.Path))

	if cfg.Admin.APIKey == "" {
		logger.Warn("INTERNAL_API_KEY is not set; admin routes will reject every request")
	}

	featuredCache := newFeaturedCache(ctx, cfg, logger)

	policy, err := drip.NewBufferPolicy(cfg.Drip.BufferPercent, cfg.Drip.BufferShares)
	if err != nil {
		logger.Fatal("invalid DRIP buffer", zap.Error(err))
	}

	sealer, err := payment.NewSealer(cfg.Tokens.CheckoutKey, cfg.Tokens.CheckoutTTL)
	if err != nil {
		logger.Fatal("invalid checkout key", zap.Error(err))
	}
	if cfg.Tokens.CheckoutKey == "" {
		logger.Warn("CHECKOUT_KEY is not set; pending checkouts will not survive a restart")
	}

	// Create repositories
	instrumentRepo := repository.NewInstrumentRepository(db)
	userRepo := repository.NewUserRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	featuredRepo := repository.NewFeaturedRepository(db)

	// Create services
	calculatorService := service.NewCalculatorService(drip.NewCalculator(policy), instrumentRepo)
	tokenService := service.NewTokenService(db, tokenRepo, sealer, logger)
	instrumentService := service.NewInstrumentService(
		instrumentRepo,
		calculatorService,
		tokenService,
		cfg.Tokens.RefreshCost,
		logger,
	)
	userService := service.NewUserService(db, userRepo, tokenService, cfg.Tokens.SignupGrant, logger)
	watchlistService := service.NewWatchlistService(watchlistRepo, instrumentRepo, calculatorService)
	featuredService := service.NewFeaturedService(featuredRepo, instrumentRepo, featuredCache, cfg.Cache.FeaturedTTL, logger)
	dashboardService := service.NewDashboardService(instrumentService, watchlistService, tokenService, featuredService)

	// Background jobs
	jobs := scheduler.New(logger)
	if err := jobs.Add("featured-rotation", cfg.Scheduler.FeaturedRotation, featuredService.RotateJob); err != nil {
		logger.Fatal("failed to schedule featured rotation", zap.Error(err))
	}
	jobs.Start()

	// Create router
	router := api.NewRouter(api.Services{
		System:     service.NewSystemService(db),
		Calculator: calculatorService,
		Instrument: instrumentService,
		Token:      tokenService,
		User:       userService,
		Watchlist:  watchlistService,
		Featured:   featuredService,
		Dashboard:  dashboardService,
	}, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr), zap.String("version", version.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler did not stop cleanly", zap.Error(err))
	}
	if closer, ok := featuredCache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close cache", zap.Error(err))
		}
	}

	logger.Info("server exited")
}

// newFeaturedCache returns a Redis cache when REDIS_ADDR is set and reachable,
// otherwise an in-process cache.
func newFeaturedCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Cache {
	if cfg.Cache.RedisAddr == "" {
		return cache.NewMemoryCache()
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rc, err := cache.DialRedis(dialCtx, cfg.Cache.RedisAddr, "drip:")
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		return cache.NewMemoryCache()
	}

	logger.Info("using redis cache", zap.String("addr", cfg.Cache.RedisAddr))
	return rc
}
