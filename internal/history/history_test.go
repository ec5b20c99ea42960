package history

import (
	"os"
	"path/filepath"
	"testing"

	"hushall/internal/core"
)

func TestNewFirstOccurrenceWins(t *testing.T) {
	ref := New([]Record{
		{Label: "Coop", Category: "FOOD"},
		{Label: "coop", Category: "OTHER"}, // older record, same label
	})

	c, ok := ref.Lookup("COOP ")
	if !ok || c != core.Food {
		t.Fatalf("expected FOOD, got %v (ok=%v)", c, ok)
	}
	if ref.Len() != 1 {
		t.Fatalf("expected 1 distinct label, got %d", ref.Len())
	}
}

func TestNewSkipsInvalid(t *testing.T) {
	ref := New([]Record{
		{Label: "", Category: "FOOD"},
		{Label: "Mystery", Category: "NOT_A_CATEGORY"},
	})
	if ref.Len() != 0 {
		t.Fatalf("expected empty reference, got %d entries", ref.Len())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.json")
	dump := `[
		{"id":"x","label":"Hyra","category":"LIVING","amount":8000},
		{"id":"y","label":"Lön","category":"INCOME"}
	]`
	if err := os.WriteFile(path, []byte(dump), 0644); err != nil {
		t.Fatal(err)
	}

	ref, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c, ok := ref.Lookup("hyra"); !ok || c != core.Living {
		t.Fatalf("expected LIVING for hyra, got %v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	ref, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if ref.Len() != 0 {
		t.Fatal("missing file should yield empty reference")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}
