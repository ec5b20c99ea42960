package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"hushall/internal/amqp"
	"hushall/internal/config"
	applog "hushall/internal/log"
	"hushall/internal/services"
	gsheet "hushall/internal/sheets/google"
	"hushall/internal/storage"
	"hushall/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting hushall-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Period totals export is optional. The worker reconciles either way.
	var exporter *gsheet.Client
	if cfg.GoogleSpreadsheetID != "" {
		exporter, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reconciler := services.NewTotalsReconciler(repo)

	var w *worker.ReconcileWorker
	if exporter != nil {
		w = worker.NewReconcileWorker(repo, reconciler, exporter)
	} else {
		w = worker.NewReconcileWorker(repo, reconciler, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up on periods whose dirty message was lost while the worker
	// was down.
	logger.Info("Performing startup reconcile check...")
	if err := w.StartupCheck(ctx); err != nil {
		logger.Error("Startup reconcile check failed", applog.FieldError, err)
		// Don't exit - the sweep retries later.
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumePeriodDirty(ctx, func(msg *amqp.PeriodDirtyMessage) error {
			return w.HandleDirtyMessage(ctx, msg)
		})
	})

	g.Go(func() error {
		return w.RunSweep(ctx, cfg.ReconcileInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
