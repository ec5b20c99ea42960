package worker

import (
	"context"
	"testing"
	"time"

	"hushall/internal/amqp"
	"hushall/internal/core"
	"hushall/internal/services"
	sheetsmem "hushall/internal/sheets/memory"
	"hushall/internal/store/memory"
)

func seed(t *testing.T, st *memory.Store) string {
	t.Helper()
	ctx := context.Background()

	p := core.BudgetPeriod{
		ID:                    "p1",
		Author:                "alice",
		Members:               []string{"alice"},
		FromDate:              time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
		ToDate:                time.Date(2022, 5, 31, 0, 0, 0, 0, time.UTC),
		CategoryExpenseTotals: core.EmptyCategoryTotals(),
	}
	if err := st.InsertPeriod(ctx, p); err != nil {
		t.Fatal(err)
	}

	tx := core.Transaction{
		ID:       "t1",
		PeriodID: "p1",
		Author:   "alice",
		Label:    "Hyra",
		Amount:   8000,
		Category: core.Living,
		Date:     time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := st.InsertTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	return p.ID
}

func TestHandleDirtyMessageReconcilesAndExports(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	periodID := seed(t, st)
	exporter := sheetsmem.New()
	w := NewReconcileWorker(st, services.NewTotalsReconciler(st), exporter)

	if err := w.HandleDirtyMessage(ctx, amqp.NewPeriodDirtyMessage(periodID)); err != nil {
		t.Fatal(err)
	}

	p, err := st.PeriodByID(ctx, periodID)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalExpenses != 8000 {
		t.Errorf("TotalExpenses = %v, want 8000", p.TotalExpenses)
	}

	rows := exporter.Rows()
	if len(rows) != 1 {
		t.Fatalf("exported rows = %d, want 1", len(rows))
	}
	if rows[0].TotalExpenses != 8000 {
		t.Errorf("exported totals = %v", rows[0].TotalExpenses)
	}
}

func TestHandleDirtyMessageSkipsExportWhenClean(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	periodID := seed(t, st)
	exporter := sheetsmem.New()
	w := NewReconcileWorker(st, services.NewTotalsReconciler(st), exporter)

	if err := w.HandleDirtyMessage(ctx, amqp.NewPeriodDirtyMessage(periodID)); err != nil {
		t.Fatal(err)
	}
	if err := w.HandleDirtyMessage(ctx, amqp.NewPeriodDirtyMessage(periodID)); err != nil {
		t.Fatal(err)
	}

	if rows := exporter.Rows(); len(rows) != 1 {
		t.Fatalf("exported rows = %d, want 1 (no export without a rewrite)", len(rows))
	}
}

func TestHandleDirtyMessageDeletedPeriod(t *testing.T) {
	st := memory.NewStore()
	w := NewReconcileWorker(st, services.NewTotalsReconciler(st), nil)

	if err := w.HandleDirtyMessage(context.Background(), amqp.NewPeriodDirtyMessage("gone")); err != nil {
		t.Fatalf("deleted period should be dropped, got %v", err)
	}
}

func TestStartupCheck(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	periodID := seed(t, st)
	w := NewReconcileWorker(st, services.NewTotalsReconciler(st), nil)

	if err := w.StartupCheck(ctx); err != nil {
		t.Fatal(err)
	}
	p, err := st.PeriodByID(ctx, periodID)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalExpenses != 8000 {
		t.Errorf("TotalExpenses = %v, want 8000", p.TotalExpenses)
	}
}
