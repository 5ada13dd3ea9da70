package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ShoppingAssistant/internal/domain"
)

type tableAnalyzer struct {
	mu    sync.Mutex
	calls []string
}

func (a *tableAnalyzer) Analyze(_ context.Context, p domain.Product) (domain.Nutrition, error) {
	a.mu.Lock()
	a.calls = append(a.calls, p.ID)
	a.mu.Unlock()

	switch p.ID {
	case "fail":
		return domain.Nutrition{}, errors.New("service down")
	case "blank":
		return domain.Nutrition{}, nil
	}
	protein := 20.0
	return domain.Nutrition{Protein: &protein}, nil
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	known := 5.0
	products := []domain.Product{
		{ID: "a"},
		{ID: "known", Nutrition: domain.Nutrition{Calories: &known}},
		{ID: "fail"},
		{ID: "blank"},
		{ID: "b"},
	}
	analyzer := &tableAnalyzer{}

	if got := Enrich(context.Background(), analyzer, products, 2, nil); got != 2 {
		t.Fatalf("expected 2 enriched products, got %d", got)
	}
	if len(analyzer.calls) != 4 {
		t.Fatalf("products with nutrition must be skipped, calls=%v", analyzer.calls)
	}
	if products[0].Protein == nil || products[4].Protein == nil {
		t.Fatalf("nutrition not applied: %+v %+v", products[0], products[4])
	}
	if products[1].Protein != nil || *products[1].Calories != 5 {
		t.Fatalf("known nutrition must stay untouched: %+v", products[1])
	}
	if !products[2].Nutrition.Empty() || !products[3].Nutrition.Empty() {
		t.Fatalf("failed lookups must leave products untouched")
	}
}

func TestEnrichWithoutAnalyzer(t *testing.T) {
	t.Parallel()

	if got := Enrich(context.Background(), nil, []domain.Product{{ID: "a"}}, 0, nil); got != 0 {
		t.Fatalf("expected no enrichment, got %d", got)
	}
}
