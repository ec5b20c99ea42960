package importer

import (
	"strings"

	"hushall/internal/core"
	"hushall/internal/history"
)

// Inferencer guesses a default category for a new transaction. The guess is
// always presented to the user for confirmation before anything persists, so
// it is deliberately simple and never fails.
type Inferencer struct {
	ref *history.Reference
}

// NewInferencer wraps a historical label reference. A nil reference is
// allowed and disables the lookup.
func NewInferencer(ref *history.Reference) *Inferencer {
	return &Inferencer{ref: ref}
}

// Infer picks a category from the raw amount's sign and the label's history.
// An unsigned amount is income; a signed one matches against previously seen
// labels and falls back to OTHER.
func (inf *Inferencer) Infer(label, rawAmount string) core.Category {
	if !strings.HasPrefix(strings.TrimSpace(rawAmount), "-") {
		return core.Income
	}
	if inf.ref != nil {
		if c, ok := inf.ref.Lookup(label); ok {
			return c
		}
	}
	return core.Other
}
