package importer

import (
	"reflect"
	"testing"
)

func TestParseTableTabRow(t *testing.T) {
	rows := ParseTable("2022-05-10\tLön\t50000")
	want := [][]string{{"2022-05-10", "Lön", "50000"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %v, want %v", rows, want)
	}
}

func TestParseTableCommaSpaceRow(t *testing.T) {
	rows := ParseTable("2022-05-10, Coop, -1000")
	want := [][]string{{"2022-05-10", "Coop", "-1000"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %v, want %v", rows, want)
	}
}

func TestParseTableMarkerRow(t *testing.T) {
	rows := ParseTable("2022-05-10" + Marker + "Hyra" + Marker + "-8000")
	want := [][]string{{"2022-05-10", "Hyra", "-8000"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %v, want %v", rows, want)
	}
}

func TestParseTableDropsShortRows(t *testing.T) {
	// Two non-empty cells are not enough for a transaction.
	rows := ParseTable("Coop\t-1000\nnonsense line\n\n")
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %v", rows)
	}
}

func TestParseTableTrimsAndDropsEmptyCells(t *testing.T) {
	rows := ParseTable("2022-05-10\t \t Coop \t-1000")
	want := [][]string{{"2022-05-10", "Coop", "-1000"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %v, want %v", rows, want)
	}
}

func TestMaxColumns(t *testing.T) {
	rows := [][]string{
		{"a", "b", "c"},
		{"a", "b", "c", "d", "e"},
		{"a", "b", "c", "d"},
	}
	if got := MaxColumns(rows); got != 5 {
		t.Fatalf("MaxColumns = %d, want 5", got)
	}
	if got := MaxColumns(nil); got != 0 {
		t.Fatalf("MaxColumns(nil) = %d, want 0", got)
	}
}
