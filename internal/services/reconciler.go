package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"hushall/internal/core"
	"hushall/internal/store"
)

// totalsEpsilon bounds the float drift tolerated between stored and
// recomputed totals before a rewrite is triggered.
const totalsEpsilon = 1e-9

// TotalsReconciler recomputes a period's denormalized totals from its
// transactions and rewrites them when they drifted.
type TotalsReconciler struct {
	store store.Store
}

func NewTotalsReconciler(st store.Store) *TotalsReconciler {
	return &TotalsReconciler{store: st}
}

// Reconcile brings one period's stored totals in line with its
// transactions. It reports whether a rewrite happened. The rewrite updates
// income, expenses and the per-category breakdown together, never a
// subset.
func (r *TotalsReconciler) Reconcile(ctx context.Context, periodID string) (bool, error) {
	p, err := r.store.PeriodByID(ctx, periodID)
	if err != nil {
		return false, fmt.Errorf("load period: %w", err)
	}
	txs, err := r.store.TransactionsForPeriod(ctx, periodID)
	if err != nil {
		return false, fmt.Errorf("load transactions: %w", err)
	}

	summary := core.Summarize(txs)
	categoryTotals := summary.CategoryExpenseTotals()

	if totalsMatch(p, summary, categoryTotals) {
		return false, nil
	}

	patch := store.PeriodPatch{
		TotalIncome:           &summary.TotalIncome,
		TotalExpenses:         &summary.TotalExpenses,
		CategoryExpenseTotals: &categoryTotals,
	}
	if _, err := r.store.UpdatePeriod(ctx, periodID, patch); err != nil {
		return false, fmt.Errorf("update period totals: %w", err)
	}

	slog.InfoContext(ctx, "Period totals reconciled",
		"period_id", periodID,
		"total_income", summary.TotalIncome,
		"total_expenses", summary.TotalExpenses)
	return true, nil
}

// ReconcileAll sweeps every period and returns how many were rewritten.
func (r *TotalsReconciler) ReconcileAll(ctx context.Context) (int, error) {
	periods, err := r.store.Periods(ctx)
	if err != nil {
		return 0, fmt.Errorf("list periods: %w", err)
	}

	changed := 0
	for _, p := range periods {
		rewritten, err := r.Reconcile(ctx, p.ID)
		if err != nil {
			return changed, fmt.Errorf("reconcile period %s: %w", p.ID, err)
		}
		if rewritten {
			changed++
		}
	}
	return changed, nil
}

func totalsMatch(p core.BudgetPeriod, summary core.Summary, categoryTotals map[core.Category]float64) bool {
	if !closeEnough(p.TotalIncome, summary.TotalIncome) {
		return false
	}
	if !closeEnough(p.TotalExpenses, summary.TotalExpenses) {
		return false
	}
	for c, want := range categoryTotals {
		if !closeEnough(p.CategoryExpenseTotals[c], want) {
			return false
		}
	}
	return true
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= totalsEpsilon
}
