package prompt

import (
	"strings"
	"testing"

	"github.com/opencatalog/researchd/internal/domain"
)

func TestBuildResearch(t *testing.T) {
	entries := []domain.InputEntry{
		{Code: "X1", Description: "hip endoprosthesis set", PriceEUR: 2400, PriceScope: "set", Manufacturer: "Acme", Country: "CZ"},
		{Code: "X2"},
	}
	matched := []domain.MatchedProduct{
		{Name: "Acme Acetabular Cup", Manufacturer: "Acme", PriceEUR: 610.5, EmdnCode: "P0901"},
	}

	p := BuildResearch("G86", entries, matched)

	for _, want := range []string{
		`"G86"`,
		"X1: hip endoprosthesis set",
		"2400.00 EUR",
		"set-scoped",
		"X2",
		"Acme Acetabular Cup",
		"EMDN P0901",
		"```json",
		"fraction_of_set",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildResearchWithoutMatchedContext(t *testing.T) {
	p := BuildResearch("G1", []domain.InputEntry{{Code: "A"}}, nil)

	if strings.Contains(p, "Matched catalog products") {
		t.Fatalf("empty matched context should omit the section:\n%s", p)
	}
	if !strings.Contains(p, "```json") {
		t.Fatal("output format contract missing")
	}
}
