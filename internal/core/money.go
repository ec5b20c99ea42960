// Package core holds the budget domain: categories, transactions, periods,
// and the pure aggregation logic computed over them.
//
// This file parses pasted monetary amounts. Bank exports in the supported
// paste formats write amounts like "1 234,56" or "-1000"; the sign marks an
// expense and is stripped, the magnitude is kept.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a pasted amount cell to its non-negative magnitude.
// It strips interior spaces (thousand separators), normalizes a decimal
// comma to a dot, and accepts one optional leading minus. The second return
// reports whether the raw value was negative, which the category inference
// uses to tell expenses from income.
//
// Examples:
//
//	ParseAmount("50000")     -> 50000, false, nil
//	ParseAmount("-1 234,56") -> 1234.56, true, nil
//	ParseAmount("SALDO")     -> 0, false, ErrInvalidAmount
func ParseAmount(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false, ErrInvalidAmount
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, ErrInvalidAmount
	}
	if v < 0 {
		// A second sign inside the number.
		return 0, false, ErrInvalidAmount
	}
	return v, negative, nil
}

// DisplayMoney floors a money value to whole kronor for display. Internal
// sums keep full precision; flooring happens only at the edge.
func DisplayMoney(v float64) int64 {
	return int64(math.Floor(v))
}
