package engine

import (
	"bytes"
	"encoding/json"
	"testing"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/selector"
)

func fixtureCatalog() []domain.Product {
	veg := domain.Dietary{Vegetarian: true, Vegan: true, Halal: true}
	return []domain.Product{
		{ID: "m1", Name: "Chicken Thighs", Category: "meat", Price: 6, Dietary: domain.Dietary{Halal: true}},
		{ID: "m2", Name: "Shish Kebab", Category: "meat", Price: 8},
		{ID: "m3", Name: "Lamb Chops", Category: "meat", Price: 12},
		{ID: "m4", Name: "Chicken Wings", NameAR: "أجنحة دجاج", Category: "meat", Price: 5.5},
		{ID: "c1", Name: "Charcoal Bag", Category: "general", Price: 3},
		{ID: "v1", Name: "Tomato", NameAR: "بندورة", Category: "vegetables", Price: 0.8, Dietary: veg},
		{ID: "v2", Name: "Cucumber", Category: "vegetables", Price: 0.7, Dietary: veg},
		{ID: "v3", Name: "Onion", Category: "vegetables", Price: 0.5, Dietary: veg},
		{ID: "b1", Name: "Arabic Bread", Category: "bread", Price: 0.5, Dietary: veg},
		{ID: "d1", Name: "Laban", Category: "dairy", Price: 1.2, Dietary: domain.Dietary{Vegetarian: true}},
		{ID: "dr1", Name: "Pepsi", Category: "drinks", Price: 0.6, Dietary: veg},
		{ID: "dr2", Name: "Water", Category: "drinks", Price: 0.3},
		{ID: "s1", Name: "Paper plates", Category: "supplies", Price: 1.5},
		{ID: "f1", Name: "Apple", Category: "fruits", Price: 1.1, Dietary: veg},
		{ID: "", Name: "Broken row", Category: "meat", Price: 1},
	}
}

func checkBudget(t *testing.T, list domain.ShoppingList) {
	t.Helper()
	var total float64
	for _, it := range list.Items {
		if it.Quantity <= 0 || it.UnitPrice <= 0 {
			t.Fatalf("non-positive line item: %+v", it)
		}
		total += it.Total()
	}
	if list.Budget != nil && total > *list.Budget+0.01 {
		t.Fatalf("total %.2f exceeds budget %.2f", total, *list.Budget)
	}
}

func TestPlanIsIdempotent(t *testing.T) {
	t.Parallel()

	e := New(nil, Options{})
	first := e.Plan("BBQ for 14 people, budget 70 JOD", domain.Hints{}, fixtureCatalog())
	second := e.Plan("BBQ for 14 people, budget 70 JOD", domain.Hints{}, fixtureCatalog())

	a, err := json.Marshal(first.List)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	b, err := json.Marshal(second.List)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("lists differ:\n%s\n%s", a, b)
	}
	if first.List.ID == "" || first.List.ID != second.List.ID {
		t.Fatalf("ids differ: %q vs %q", first.List.ID, second.List.ID)
	}
	if first.List.Empty() {
		t.Fatalf("expected a non-empty bbq list")
	}
	checkBudget(t, first.List)
}

func TestPlanAutoBudget(t *testing.T) {
	t.Parallel()

	res := New(nil, Options{}).Plan("BBQ for 14 people", domain.Hints{}, fixtureCatalog())
	if res.List.Budget == nil || *res.List.Budget != 100 {
		t.Fatalf("expected auto budget 100, got %v", res.List.Budget)
	}
	if !res.List.BudgetAuto || res.Intent.BudgetSource != domain.BudgetAuto {
		t.Fatalf("budget should be flagged as auto")
	}
	if res.List.NumPeople != 14 || res.List.EventType != "bbq" {
		t.Fatalf("unexpected list header: %+v", res.List)
	}
	checkBudget(t, res.List)
}

func TestPlanHintBudgetWins(t *testing.T) {
	t.Parallel()

	budget := 50.0
	res := New(nil, Options{}).Plan("dinner for 4, budget 20 JOD", domain.Hints{Budget: &budget}, fixtureCatalog())
	if res.List.Budget == nil || *res.List.Budget != 50 {
		t.Fatalf("expected budget 50, got %v", res.List.Budget)
	}
	checkBudget(t, res.List)
}

func TestPlanBBQPoolCoversSubtypes(t *testing.T) {
	t.Parallel()

	catalog := fixtureCatalog()
	res := New(nil, Options{}).Plan("bbq for 6", domain.Hints{}, catalog)

	seen := map[string]bool{}
	for _, p := range res.Pool.Products("meat") {
		seen[selector.SubtypeOf(p)] = true
	}
	for _, sub := range []string{"chicken", "skewer", "other"} {
		if !seen[sub] {
			t.Fatalf("meat pool missing %s", sub)
		}
	}
	if catalog[4].Category != "general" {
		t.Fatalf("catalog was mutated by re-tagging")
	}
	if res.Pool.Corrections["c1"] != "charcoal" {
		t.Fatalf("charcoal correction missing: %v", res.Pool.Corrections)
	}
}

func TestPlanHeadcountMode(t *testing.T) {
	t.Parallel()

	res := New(nil, Options{BudgetMode: BudgetModeHeadcount}).Plan("dinner for 10 people", domain.Hints{}, fixtureCatalog())
	if res.List.Budget != nil {
		t.Fatalf("headcount mode should not invent a budget")
	}
	if res.List.Empty() {
		t.Fatalf("expected items")
	}
	for _, it := range res.List.Items {
		if it.Quantity <= 0 {
			t.Fatalf("non-positive quantity: %+v", it)
		}
	}
}

func TestPlanVegetarianExcludesMeat(t *testing.T) {
	t.Parallel()

	res := New(nil, Options{}).Plan("vegetarian dinner for 4 people", domain.Hints{}, fixtureCatalog())
	if res.List.Empty() {
		t.Fatalf("expected vegetarian items")
	}
	for _, it := range res.List.Items {
		if it.Category == "meat" {
			t.Fatalf("meat in vegetarian list: %+v", it)
		}
	}
	for _, sp := range res.Ranked {
		if !sp.Product.Vegetarian {
			t.Fatalf("ranked product %s is not vegetarian", sp.Product.ID)
		}
	}
}

func TestPlanBBQWithoutChicken(t *testing.T) {
	t.Parallel()

	res := New(nil, Options{}).Plan("BBQ for 10 people, budget 60 JOD, no chicken", domain.Hints{}, fixtureCatalog())
	if res.List.Empty() {
		t.Fatalf("expected a bbq list without chicken")
	}
	for _, it := range res.List.Items {
		if it.ProductID == "m1" || it.ProductID == "m4" {
			t.Fatalf("chicken in list: %+v", it)
		}
	}
	for _, p := range res.Pool.Products("meat") {
		if selector.SubtypeOf(p) == "chicken" {
			t.Fatalf("chicken %s left in meat pool", p.ID)
		}
	}
	for _, sp := range res.Ranked {
		if sp.Product.ID == "m1" || sp.Product.ID == "m4" {
			t.Fatalf("chicken %s left in ranked products", sp.Product.ID)
		}
	}
	checkBudget(t, res.List)
}

func TestPlanEmptyCatalog(t *testing.T) {
	t.Parallel()

	res := New(nil, Options{}).Plan("bbq for 10", domain.Hints{}, nil)
	if !res.List.Empty() || res.List.TotalCost != 0 {
		t.Fatalf("expected empty list, got %+v", res.List)
	}
	if len(res.Ranked) != 0 {
		t.Fatalf("expected no ranked products")
	}
}
