// Package history loads the historical label reference used for category
// inference. The reference is a point-in-time JSON export of previously
// recorded transactions, filtered to unique labels; it is read-only.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"hushall/internal/core"
)

// Record is one exported {label, category} pair. The export carries more
// fields than these, but the reference only needs the pair.
type Record struct {
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Reference is an immutable lookup from normalized label to the category it
// was last recorded under.
type Reference struct {
	byLabel map[string]core.Category
}

// New builds a reference from exported records. The export is ordered newest
// first and the first occurrence of a label wins; records with an invalid
// category are skipped.
func New(records []Record) *Reference {
	byLabel := make(map[string]core.Category, len(records))
	for _, r := range records {
		key := Normalize(r.Label)
		if key == "" {
			continue
		}
		c := core.Category(r.Category)
		if !c.Valid() {
			continue
		}
		if _, seen := byLabel[key]; seen {
			continue
		}
		byLabel[key] = c
	}
	return &Reference{byLabel: byLabel}
}

// Load reads a reference from a JSON dump file. A missing path yields an
// empty reference rather than an error: inference then falls back to its
// defaults, which is the intended degraded behavior.
func Load(path string) (*Reference, error) {
	if path == "" {
		return New(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, fmt.Errorf("read history dump: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode history dump: %w", err)
	}
	return New(records), nil
}

// Lookup returns the category a label was previously recorded under.
func (r *Reference) Lookup(label string) (core.Category, bool) {
	c, ok := r.byLabel[Normalize(label)]
	return c, ok
}

// Len returns the number of distinct labels in the reference.
func (r *Reference) Len() int {
	return len(r.byLabel)
}

// Normalize lowercases and trims a label for matching.
func Normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
