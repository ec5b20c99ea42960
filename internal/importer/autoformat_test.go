package importer

import (
	"strings"
	"testing"
)

func TestAutoFormatGroupsTriples(t *testing.T) {
	raw := "2022-05-10\nCoop\n-1000\n2022-05-12\nLön\n50000"
	got := AutoFormat(raw)
	want := "2022-05-10" + Marker + "Coop" + Marker + "-1000\n" +
		"2022-05-12" + Marker + "Lön" + Marker + "50000"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAutoFormatStickyDate(t *testing.T) {
	raw := "2022-05-10\nCoop\n-1000\nHyra\n-8000"
	got := AutoFormat(raw)
	rows := strings.Split(got, "\n")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %q", got)
	}
	for _, row := range rows {
		if !strings.HasPrefix(row, "2022-05-10"+Marker) {
			t.Fatalf("row %q lost the current date", row)
		}
	}
}

func TestAutoFormatRepeatedDateAndBalanceNoise(t *testing.T) {
	// Bank exports repeat the date per entry and end with a balance line.
	raw := "2022-05-10\n2022-05-10\nCoop\n1000\nSALDO"
	got := AutoFormat(raw)
	want := "2022-05-10" + Marker + "Coop" + Marker + "1000"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAutoFormatAmountWithoutLabelDropped(t *testing.T) {
	raw := "2022-05-10\n-1000\nCoop\n-500"
	got := AutoFormat(raw)
	want := "2022-05-10" + Marker + "Coop" + Marker + "-500"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAutoFormatAmountWithThousandSeparator(t *testing.T) {
	raw := "2022-05-10\nLön\n50 000,00"
	got := AutoFormat(raw)
	want := "2022-05-10" + Marker + "Lön" + Marker + "50 000,00"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAutoFormatPassesThroughDelimitedLines(t *testing.T) {
	raw := "2022-05-10\tCoop\t-1000\n2022-05-11, Hyra, -8000"
	if got := AutoFormat(raw); got != raw {
		t.Fatalf("got %q, want input unchanged", got)
	}
}

func TestAutoFormatIsIdempotent(t *testing.T) {
	raw := "2022-05-10\nCoop\n-1000\nHyra\n-8000\n2022-05-12\nLön\n50000\nSALDO"
	once := AutoFormat(raw)
	twice := AutoFormat(once)
	if once != twice {
		t.Fatalf("not a fixed point:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestAutoFormatEmptyInput(t *testing.T) {
	if got := AutoFormat("\n\n  \n"); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
