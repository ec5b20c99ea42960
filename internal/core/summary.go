package core

// Summary is the aggregate view of a transaction list. ByCategory preserves
// the relative order of the input so list rendering stays stable across
// recomputations.
type Summary struct {
	ByCategory       map[Category][]Transaction
	TotalIncome      float64
	TotalExpenses    float64
	TotalLeft        float64
	PotentialSavings float64
}

// Summarize groups transactions by category and computes the period totals.
// Optional expenses count toward TotalExpenses like any other expense and
// are additionally reported as PotentialSavings.
func Summarize(transactions []Transaction) Summary {
	s := Summary{ByCategory: make(map[Category][]Transaction)}

	for _, t := range transactions {
		s.ByCategory[t.Category] = append(s.ByCategory[t.Category], t)

		if t.Category.IsIncome() {
			s.TotalIncome += t.Amount
			continue
		}
		s.TotalExpenses += t.Amount
		if t.Optional {
			s.PotentialSavings += t.Amount
		}
	}

	s.TotalLeft = s.TotalIncome - s.TotalExpenses
	return s
}

// CategoryTotal sums the amounts of one category group.
func (s Summary) CategoryTotal(c Category) float64 {
	var total float64
	for _, t := range s.ByCategory[c] {
		total += t.Amount
	}
	return total
}

// CategoryExpenseTotals returns the per-category expense sums in the shape
// the period cache stores: every expense category present, zero-filled.
func (s Summary) CategoryExpenseTotals() map[Category]float64 {
	totals := EmptyCategoryTotals()
	for _, c := range ExpenseCategories() {
		totals[c] = s.CategoryTotal(c)
	}
	return totals
}

// ExpensePercentage returns a category's share of all expenses in whole
// percent, 0 when there are no expenses.
func (s Summary) ExpensePercentage(c Category) float64 {
	if s.TotalExpenses == 0 {
		return 0
	}
	return s.CategoryTotal(c) / s.TotalExpenses * 100
}
