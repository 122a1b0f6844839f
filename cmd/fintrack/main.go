package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/analytics"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Invalid timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)

	reportCache := cache.NewLRUCache[analytics.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	cacheManager := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	cacheManager.Register("reports", reportCache)

	reports := services.NewReportService(be.Store, be.Store, be.Store, reportCache, loc)
	posts := services.NewPostService(be.Store)
	if cfg.SeedPosts {
		if n, err := posts.EnsureSeeded(ctx); err != nil {
			logger.Warn("Failed to seed posts", "error", err)
		} else if n > 0 {
			logger.Info("Seeded posts", "count", n)
		}
	}

	srv := apphttp.NewServer(apphttp.ServerConfig{
		Addr:               ":" + cfg.Port,
		Display:            apphttp.NewDisplaySettings(cfg.DefaultCurrency, cfg.ShowTitles),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}, apphttp.Services{
		Transactions: services.NewTransactionService(be.Store, be.Publisher, reports, loc),
		Budgets:      services.NewBudgetService(be.Store, be.Store, reports, loc),
		Goals:        services.NewGoalService(be.Store),
		Posts:        posts,
		Reports:      reports,
	})

	runCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cacheManager.Stop()
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})
	cacheManager.StartCleanup(runCtx, time.Minute)

	logger.Info("Starting fintrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", be.Publisher != nil,
		"timezone", loc.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(runCtx, done)
	logger.Info("Server stopped gracefully")
}
