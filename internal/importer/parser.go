// Package importer turns pasted tabular text into candidate transactions:
// splitting rows and cells, assigning column roles, and inferring a default
// category from historical data. Malformed rows are silently dropped; the
// caller only sees the surviving candidates and a dropped count.
package importer

import (
	"regexp"
	"strings"
)

// Marker is the internal single-character cell separator inserted by the
// auto-format pre-pass. The unit separator cannot appear in pasted bank
// exports, so synthesized rows never collide with real cell content.
const Marker = "\x1f"

// cellSplitter matches the accepted raw-row delimiters: a tab, the literal
// ", " sequence, or the auto-format marker.
var cellSplitter = regexp.MustCompile("\t|, |" + Marker)

// ParseTable splits pasted text into a ragged list of rows. Cells are
// trimmed and empty cells dropped; rows with fewer than three cells are
// discarded since a transaction needs at least a date, a label and an
// amount.
func ParseTable(raw string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(raw, "\n") {
		cells := splitCells(line)
		if len(cells) < 3 {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

// MaxColumns returns the widest row, which decides how many column role
// slots exist downstream.
func MaxColumns(rows [][]string) int {
	max := 0
	for _, row := range rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

func splitCells(line string) []string {
	var cells []string
	for _, c := range cellSplitter.Split(line, -1) {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		cells = append(cells, c)
	}
	return cells
}
