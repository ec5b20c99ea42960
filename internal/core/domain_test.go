package core

import (
	"testing"
	"time"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.Valid() {
			t.Fatalf("%s should be valid", c)
		}
	}
	if Category("GROCERIES").Valid() {
		t.Fatal("unknown category should be invalid")
	}
	if Category("income").Valid() {
		t.Fatal("wire values are case-sensitive")
	}
}

func TestExpenseCategoriesExcludeIncome(t *testing.T) {
	for _, c := range ExpenseCategories() {
		if c == Income {
			t.Fatal("INCOME must not be an expense category")
		}
	}
	if got := len(ExpenseCategories()); got != len(Categories())-1 {
		t.Fatalf("expected %d expense categories, got %d", len(Categories())-1, got)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "t1",
		PeriodID: "p1",
		Author:   "u1",
		Label:    "Coop",
		Amount:   100,
		Category: Food,
		Date:     time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"bad category", func(tx *Transaction) { tx.Category = "NOPE" }, ErrInvalidCategory},
		{"blank label", func(tx *Transaction) { tx.Label = "   " }, ErrEmptyLabel},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		tx := good
		tc.mut(&tx)
		if err := tx.Validate(); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBudgetPeriodValidate(t *testing.T) {
	from := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, 5, 24, 0, 0, 0, 0, time.UTC)

	good := BudgetPeriod{FromDate: from, ToDate: to, Members: []string{"u1"}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	if err := (BudgetPeriod{FromDate: to, ToDate: from, Members: []string{"u1"}}).Validate(); err == nil {
		t.Fatal("expected error for end before start")
	}
	if err := (BudgetPeriod{FromDate: from, ToDate: to}).Validate(); err != ErrNoMembers {
		t.Fatal("expected ErrNoMembers")
	}
}

func TestDay(t *testing.T) {
	a := time.Date(2022, 5, 10, 23, 59, 1, 0, time.UTC)
	b := time.Date(2022, 5, 10, 0, 1, 0, 0, time.UTC)
	if !Day(a).Equal(Day(b)) {
		t.Fatal("same calendar day should truncate equal")
	}
	if Day(a).Hour() != 0 {
		t.Fatal("day should be midnight UTC")
	}
}
