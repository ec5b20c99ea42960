package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hushall/internal/amqp"
	"hushall/internal/services"
	"hushall/internal/sheets"
	"hushall/internal/store"
)

// ReconcileWorker keeps cached period totals in line with the recorded
// transactions. It is driven by queued dirty messages and backed by a
// periodic sweep that catches anything the queue missed.
type ReconcileWorker struct {
	store      store.Store
	reconciler *services.TotalsReconciler
	exporter   sheets.SummaryExporter
}

// NewReconcileWorker builds a worker. The exporter may be nil, in which
// case reconciled totals stay local.
func NewReconcileWorker(st store.Store, reconciler *services.TotalsReconciler, exporter sheets.SummaryExporter) *ReconcileWorker {
	return &ReconcileWorker{
		store:      st,
		reconciler: reconciler,
		exporter:   exporter,
	}
}

// HandleDirtyMessage reconciles one flagged period. A period deleted
// between flag and processing is not an error.
func (w *ReconcileWorker) HandleDirtyMessage(ctx context.Context, msg *amqp.PeriodDirtyMessage) error {
	changed, err := w.reconciler.Reconcile(ctx, msg.PeriodID)
	if err != nil {
		if isNotFound(err) {
			slog.InfoContext(ctx, "Flagged period no longer exists, dropping message",
				"period_id", msg.PeriodID)
			return nil
		}
		return fmt.Errorf("reconcile period: %w", err)
	}

	if changed {
		w.exportTotals(ctx, msg.PeriodID)
	}
	return nil
}

// RunSweep reconciles every period at the given interval until ctx is
// cancelled. One failing sweep is logged and the loop continues.
func (w *ReconcileWorker) RunSweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Starting reconcile sweep", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping reconcile sweep", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			changed, err := w.reconciler.ReconcileAll(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Reconcile sweep failed", "error", err)
				continue
			}
			if changed > 0 {
				slog.InfoContext(ctx, "Reconcile sweep rewrote stale totals", "periods", changed)
			}
		}
	}
}

// StartupCheck runs one full sweep at worker start to recover from
// messages lost while the worker was down.
func (w *ReconcileWorker) StartupCheck(ctx context.Context) error {
	changed, err := w.reconciler.ReconcileAll(ctx)
	if err != nil {
		return fmt.Errorf("startup reconcile: %w", err)
	}
	slog.InfoContext(ctx, "Startup reconcile completed", "rewritten", changed)
	return nil
}

func (w *ReconcileWorker) exportTotals(ctx context.Context, periodID string) {
	if w.exporter == nil {
		return
	}

	p, err := w.store.PeriodByID(ctx, periodID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load period for export",
			"period_id", periodID, "error", err)
		return
	}

	ref, err := w.exporter.AppendPeriodTotals(ctx, p)
	if err != nil {
		// Export is best effort, the local totals are already correct.
		slog.ErrorContext(ctx, "Failed to export period totals",
			"period_id", periodID, "error", err)
		return
	}

	slog.InfoContext(ctx, "Exported period totals", "period_id", periodID, "row_ref", ref)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrPeriodNotFound)
}
