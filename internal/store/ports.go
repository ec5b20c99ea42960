package store

import (
	"context"
	"errors"
	"time"

	"hushall/internal/core"
)

var (
	ErrPeriodNotFound      = errors.New("budget period not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Ports for persistence adapters.
type (
	// PeriodStore persists budget periods. Deleting a period cascades to
	// its transactions.
	PeriodStore interface {
		InsertPeriod(ctx context.Context, p core.BudgetPeriod) error
		PeriodByID(ctx context.Context, id string) (core.BudgetPeriod, error)
		// Periods returns all periods ordered by end date, newest first.
		Periods(ctx context.Context) ([]core.BudgetPeriod, error)
		UpdatePeriod(ctx context.Context, id string, patch PeriodPatch) (core.BudgetPeriod, error)
		DeletePeriod(ctx context.Context, id string) error
		// SubscribePeriods delivers the full period list to fn on every
		// change, starting with the current state. The returned cancel
		// stops delivery.
		SubscribePeriods(ctx context.Context, fn func([]core.BudgetPeriod)) (cancel func(), err error)
	}

	// TransactionStore persists transactions grouped by period.
	TransactionStore interface {
		InsertTransaction(ctx context.Context, t core.Transaction) error
		TransactionByID(ctx context.Context, id string) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
		// TransactionsForPeriod returns the period's transactions ordered
		// by date, newest first.
		TransactionsForPeriod(ctx context.Context, periodID string) ([]core.Transaction, error)
		// SubscribeTransactions delivers the period's transaction list to
		// fn on every change, starting with the current state.
		SubscribeTransactions(ctx context.Context, periodID string, fn func([]core.Transaction)) (cancel func(), err error)
	}

	// Store is the full persistence surface the services depend on.
	Store interface {
		PeriodStore
		TransactionStore
		Close() error
	}
)

// PeriodPatch is a partial period update. Nil fields keep their stored
// value, matching merge-write semantics.
type PeriodPatch struct {
	Members               *[]string
	FromDate              *time.Time
	ToDate                *time.Time
	TotalIncome           *float64
	TotalExpenses         *float64
	CategoryExpenseTotals *map[core.Category]float64
}

// TransactionPatch is a partial transaction update. Nil fields keep their
// stored value.
type TransactionPatch struct {
	Label    *string
	Amount   *float64
	Category *core.Category
	Date     *time.Time
	Shared   *bool
	Optional *bool
}

// ApplyTo merges the patch into p and bumps LastUpdated.
func (patch PeriodPatch) ApplyTo(p *core.BudgetPeriod, now time.Time) {
	if patch.Members != nil {
		p.Members = append([]string(nil), (*patch.Members)...)
	}
	if patch.FromDate != nil {
		p.FromDate = *patch.FromDate
	}
	if patch.ToDate != nil {
		p.ToDate = *patch.ToDate
	}
	if patch.TotalIncome != nil {
		p.TotalIncome = *patch.TotalIncome
	}
	if patch.TotalExpenses != nil {
		p.TotalExpenses = *patch.TotalExpenses
	}
	if patch.CategoryExpenseTotals != nil {
		totals := make(map[core.Category]float64, len(*patch.CategoryExpenseTotals))
		for c, v := range *patch.CategoryExpenseTotals {
			totals[c] = v
		}
		p.CategoryExpenseTotals = totals
	}
	p.LastUpdated = now
}

// ApplyTo merges the patch into t and bumps LastUpdated.
func (patch TransactionPatch) ApplyTo(t *core.Transaction, now time.Time) {
	if patch.Label != nil {
		t.Label = *patch.Label
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Shared != nil {
		t.Shared = *patch.Shared
	}
	if patch.Optional != nil {
		t.Optional = *patch.Optional
	}
	t.LastUpdated = now
}
