package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(PrefixItem)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(got, "item-") {
		t.Errorf("expected item- prefix, got %q", got)
	}
	// prefix + hyphen + 21-char nanoid
	if len(got) != len(PrefixItem)+1+21 {
		t.Errorf("unexpected ID length %d: %q", len(got), got)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := MustGenerate(PrefixRater)
		if seen[id] {
			t.Fatalf("duplicate ID generated: %q", id)
		}
		seen[id] = true
	}
}
