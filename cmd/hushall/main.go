package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hushall/internal/amqp"
	"hushall/internal/cache"
	"hushall/internal/config"
	"hushall/internal/history"
	apphttp "hushall/internal/http"
	applog "hushall/internal/log"
	"hushall/internal/services"
	"hushall/internal/storage"
	"hushall/internal/store"
	"hushall/internal/store/memory"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	var st store.Store
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository",
				applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		st = repo
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		st = memory.NewStore()
		logger.Info("Initialized memory backend")
	}

	ref, err := history.Load(cfg.HistoryDumpPath)
	if err != nil {
		logger.Error("Failed to load transaction history dump",
			applog.FieldError, err, "path", cfg.HistoryDumpPath)
		os.Exit(1)
	}
	logger.Info("Loaded category inference history", "records", ref.Len())

	// The reconcile queue is optional. Without it writes still land locally
	// and the worker's periodic sweep picks the periods up.
	var publisher services.DirtyPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Reconcile queue unavailable, continuing without it",
				applog.FieldError, err)
		} else {
			publisher = client
			logger.Info("Connected to reconcile queue",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	budget := services.NewBudgetService(st, publisher, ref)

	cacheManager := cache.NewManager()
	cacheManager.StartCleanup(time.Minute)
	defer cacheManager.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, budget, logger, cacheManager)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting hushall server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
