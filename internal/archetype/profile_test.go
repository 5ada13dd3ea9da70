package archetype

import (
	"math"
	"testing"
)

func TestSharesSumToOne(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		var sum float64
		for _, s := range Lookup(name).Shares {
			sum += s
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("%s shares sum to %.4f, want 1", name, sum)
		}
	}
}

func TestLookupFallsBackToGeneral(t *testing.T) {
	t.Parallel()

	if got := Lookup("picnic").Name; got != "general" {
		t.Fatalf("Lookup(picnic) = %s, want general", got)
	}
}

func TestOrderedCategoriesPutsEssentialFirst(t *testing.T) {
	t.Parallel()

	p := Profile{Categories: []CategoryRule{
		{Category: "a", Priority: 1},
		{Category: "b", Priority: 5, Essential: true},
		{Category: "c", Priority: 2, Essential: true},
	}}

	got := p.OrderedCategories()
	want := []string{"c", "b", "a"}
	for i, rule := range got {
		if rule.Category != want[i] {
			t.Fatalf("position %d = %s, want %s", i, rule.Category, want[i])
		}
	}
}

func TestShareDefaultsForUnknownCategory(t *testing.T) {
	t.Parallel()

	bbq := Lookup("bbq")
	if bbq.Share("meat") != 0.35 {
		t.Fatalf("bbq meat share = %v, want 0.35", bbq.Share("meat"))
	}
	if bbq.Share("snacks") != DefaultShare {
		t.Fatalf("unknown category share = %v, want %v", bbq.Share("snacks"), DefaultShare)
	}
}
