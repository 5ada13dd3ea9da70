package selector

import (
	"testing"

	"ShoppingAssistant/internal/domain"
)

func item(id, name, category string, price float64) domain.Product {
	return domain.Product{ID: id, Name: name, Category: category, Price: price}.Normalize()
}

func subtypes(products []domain.Product) map[string]int {
	out := map[string]int{}
	for _, p := range products {
		out[SubtypeOf(p)]++
	}
	return out
}

func TestSelectBBQCoversMeatSubtypes(t *testing.T) {
	t.Parallel()

	catalog := []domain.Product{
		item("m1", "Chicken Thighs", "meat", 6),
		item("m2", "Shish Kebab", "meat", 8),
		item("m3", "Lamb Chops", "meat", 12),
		item("m4", "Beef Burger", "meat", 7),
		item("m5", "Chicken Wings", "meat", 5.5),
		item("c1", "Charcoal Bag", "general", 3),
		item("v1", "Tomato", "vegetables", 1),
	}

	pool := New(nil).Select("bbq", nil, catalog)

	meat := pool.Products("meat")
	got := subtypes(meat)
	for _, sub := range []string{"chicken", "skewer", "other"} {
		if got[sub] == 0 {
			t.Fatalf("meat pool missing %s: %v", sub, got)
		}
	}
	wantOrder := []string{"m1", "m2", "m4", "m5", "m3"}
	if len(meat) != len(wantOrder) {
		t.Fatalf("expected %d meat candidates, got %d", len(wantOrder), len(meat))
	}
	for i, id := range wantOrder {
		if meat[i].ID != id {
			t.Fatalf("meat[%d] = %s, want %s", i, meat[i].ID, id)
		}
	}

	charcoal := pool.Products("charcoal")
	if len(charcoal) != 1 || charcoal[0].Category != "charcoal" {
		t.Fatalf("expected re-tagged charcoal, got %+v", charcoal)
	}
	if pool.Corrections["c1"] != "charcoal" {
		t.Fatalf("correction not recorded: %v", pool.Corrections)
	}
	if catalog[5].Category != "general" {
		t.Fatalf("catalog mutated: %s", catalog[5].Category)
	}

	if pool.Order[0] != "meat" || pool.Order[1] != "charcoal" {
		t.Fatalf("essential categories should come first: %v", pool.Order)
	}
}

func TestSelectBBQBackfillsMissingSubtype(t *testing.T) {
	t.Parallel()

	catalog := []domain.Product{
		item("m1", "Chicken Breast", "meat", 6),
		item("m2", "Minced Beef", "meat", 9),
		item("x1", "Shish Tawook Skewers", "snacks", 9.5),
	}

	pool := New(nil).Select("bbq", nil, catalog)
	got := subtypes(pool.Products("meat"))
	if got["skewer"] != 1 {
		t.Fatalf("skewer not backfilled: %v", got)
	}
	if pool.Corrections["x1"] != "meat" {
		t.Fatalf("backfilled product should be re-tagged: %v", pool.Corrections)
	}
}

func TestSelectEssentialFallsBackToKeywords(t *testing.T) {
	t.Parallel()

	catalog := []domain.Product{
		item("b1", "Arabic Bread", "bakery", 0.5),
		item("d1", "Labneh", "dairy", 2),
	}

	pool := New(nil).Select("breakfast", nil, catalog)
	bread := pool.Products("bread")
	if len(bread) != 1 || bread[0].ID != "b1" || bread[0].Category != "bread" {
		t.Fatalf("expected keyword fallback for bread, got %+v", bread)
	}
	if !pool.Essential["bread"] || pool.Essential["fruits"] {
		t.Fatalf("unexpected essential flags: %v", pool.Essential)
	}
}

func TestSelectAppliesBudgetCeiling(t *testing.T) {
	t.Parallel()

	budget := 10.0
	catalog := []domain.Product{
		item("d1", "Cheese", "dairy", 3.5),
		item("d2", "Milk", "dairy", 1),
		item("d3", "Free sample", "dairy", 0),
	}

	pool := New(nil).Select("general", &budget, catalog)
	dairy := pool.Products("dairy")
	if len(dairy) != 1 || dairy[0].ID != "d2" {
		t.Fatalf("expected only milk under the 30%% ceiling, got %+v", dairy)
	}
}

func TestAdmissible(t *testing.T) {
	t.Parallel()

	budget := 10.0
	cases := []struct {
		category  string
		essential bool
		price     float64
		budget    *float64
		want      bool
	}{
		{category: "meat", essential: true, price: 5, want: false},
		{category: "meat", essential: true, price: 5.01, want: true},
		{category: "meat", essential: true, price: 100, want: false},
		{category: "meat", essential: false, price: 2, budget: &budget, want: true},
		{category: "dairy", price: 3, budget: &budget, want: false},
		{category: "dairy", price: 2.9, budget: &budget, want: true},
		{category: "dairy", price: 49.9, want: true},
		{category: "dairy", price: 50, want: false},
		{category: "dairy", price: 0, want: false},
	}
	for _, tc := range cases {
		if got := Admissible(tc.category, tc.essential, tc.price, tc.budget); got != tc.want {
			t.Fatalf("Admissible(%s, %v, %v) = %v, want %v", tc.category, tc.essential, tc.price, got, tc.want)
		}
	}
}
