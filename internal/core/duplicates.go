package core

import (
	"fmt"
	"strings"
)

// FindDuplicateIDs flags transactions that are likely duplicates of each
// other. Two transactions match when they share author, amount, normalized
// label (lowercased, trimmed) and calendar day; every member of a matching
// group is flagged, so the relation is symmetric.
//
// The match is deliberately date-bound: the same member buying at the same
// shop on different days is a repeat purchase, not a duplicate entry.
func FindDuplicateIDs(transactions []Transaction) map[string]struct{} {
	groups := make(map[string][]string, len(transactions))
	for _, t := range transactions {
		k := duplicateKey(t)
		groups[k] = append(groups[k], t.ID)
	}

	dupes := make(map[string]struct{})
	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			dupes[id] = struct{}{}
		}
	}
	return dupes
}

func duplicateKey(t Transaction) string {
	label := strings.ToLower(strings.TrimSpace(t.Label))
	return fmt.Sprintf("%s\x00%v\x00%s\x00%s",
		t.Author, t.Amount, label, Day(t.Date).Format("2006-01-02"))
}
