package core

import (
	"errors"
	"strings"
	"time"
)

// Category classifies a transaction's economic purpose. INCOME is the only
// revenue tag; every other category is an expense.
type Category string

const (
	Income    Category = "INCOME"
	Living    Category = "LIVING"
	Food      Category = "FOOD"
	Transport Category = "TRANSPORT"
	Clothes   Category = "CLOTHES"
	Savings   Category = "SAVINGS"
	Other     Category = "OTHER"
	Loan      Category = "LOAN"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyLabel      = errors.New("empty label")
	ErrNoMembers       = errors.New("period has no members")
)

// categoryOrder is the display order used by the board view.
var categoryOrder = []Category{
	Income, Living, Food, Transport, Clothes, Savings, Other, Loan,
}

var displayNames = map[Category]string{
	Income:    "Inkomster",
	Living:    "Boende",
	Food:      "Mat",
	Transport: "Transport",
	Clothes:   "Kläder",
	Savings:   "Sparande",
	Other:     "Övrigt",
	Loan:      "Lån",
}

// Categories returns all categories in board order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ExpenseCategories returns every category except INCOME, in board order.
func ExpenseCategories() []Category {
	out := make([]Category, 0, len(categoryOrder)-1)
	for _, c := range categoryOrder {
		if c != Income {
			out = append(out, c)
		}
	}
	return out
}

func (c Category) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

func (c Category) IsIncome() bool {
	return c == Income
}

// DisplayName returns the Swedish label shown in the UI.
func (c Category) DisplayName() string {
	return displayNames[c]
}

// Transaction is one recorded money movement inside a budget period.
// Amount is always a non-negative magnitude; direction follows from the
// category (INCOME vs everything else), never from a stored sign.
type Transaction struct {
	ID          string
	PeriodID    string
	Author      string
	Label       string
	Amount      float64
	Category    Category
	Date        time.Time
	Shared      bool
	Optional    bool
	CreatedAt   time.Time
	LastUpdated time.Time
}

func (t Transaction) Validate() error {
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(t.Label)) == 0 {
		return ErrEmptyLabel
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// BudgetPeriod is a bounded window of shared budgeting. The three total
// fields are a denormalized cache mirroring a recomputation over the
// period's live transactions; they are reconciled opportunistically and are
// never the source of truth for the live view.
type BudgetPeriod struct {
	ID                    string
	Author                string
	Members               []string
	FromDate              time.Time
	ToDate                time.Time
	TotalIncome           float64
	TotalExpenses         float64
	CategoryExpenseTotals map[Category]float64
	CreatedAt             time.Time
	LastUpdated           time.Time
}

func (p BudgetPeriod) Validate() error {
	if p.FromDate.IsZero() || p.ToDate.IsZero() {
		return ErrInvalidDate
	}
	if p.ToDate.Before(p.FromDate) {
		return errors.New("period end before start")
	}
	if len(p.Members) == 0 {
		return ErrNoMembers
	}
	return nil
}

// HasMember reports whether id is one of the period's members.
func (p BudgetPeriod) HasMember(id string) bool {
	for _, m := range p.Members {
		if m == id {
			return true
		}
	}
	return false
}

// EmptyCategoryTotals returns a zero-filled totals map covering every
// expense category, the shape the cached field is stored in.
func EmptyCategoryTotals() map[Category]float64 {
	totals := make(map[Category]float64, len(categoryOrder)-1)
	for _, c := range ExpenseCategories() {
		totals[c] = 0
	}
	return totals
}

// Day truncates t to its calendar day in UTC. Transactions pasted or edited
// with a wall-clock time still compare equal on the same day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
