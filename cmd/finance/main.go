package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"finance/internal/auth"
	"finance/internal/cache"
	"finance/internal/cli"
	"finance/internal/config"
	"finance/internal/core"
	apphttp "finance/internal/http"
	"finance/internal/log"
	"finance/internal/services"

	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 30 * time.Second
	principalCacheTTL = 30 * time.Second
	cacheSweepEvery   = time.Minute
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig()

	ctx, stop := cli.SignalContext()
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	result := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err.Error())
		}
	}()
	b := result.Backend

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	principals := cache.NewLRU[*core.User](1024, principalCacheTTL)
	janitor := cache.NewJanitor(logger)
	janitor.Register(principals)

	var watcher *services.BudgetWatcher
	if b.Alerts != nil {
		watcher = services.NewBudgetWatcher(b.Budgets, b.Expenses, b.Alerts)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		StaticDir:          cfg.StaticDir,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, apphttp.Deps{
		Auth:     auth.NewAuthenticator(b.Users, auth.NewHasher(cfg.BcryptCost), tokens),
		Gate:     auth.NewGate(tokens, auth.NewCachedUsers(b.Users, principals), auth.DefaultPublicAllowlist(), logger),
		Expenses: services.NewExpenseService(b.Expenses, watcher),
		Incomes:  services.NewIncomeService(b.Incomes),
		Budgets:  services.NewBudgetService(b.Budgets, b.Expenses),
		Store:    b.DB,
		Logger:   logger,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting finance server",
			"port", cfg.Port,
			"driver", cfg.DatabaseDriver,
			"alerts_enabled", b.Alerts != nil,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return janitor.Run(gctx, cacheSweepEvery)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(log.NewContext(gctx, logger))
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
