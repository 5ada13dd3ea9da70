package selector

import (
	"math"
	"sort"

	"ShoppingAssistant/internal/archetype"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// sortCandidates orders finalists: products tagged with the category come
// before keyword rescues, then meat prefers chicken, essential categories
// prefer prices near the median and the rest go cheapest first.
func sortCandidates(rule archetype.CategoryRule, items []domain.Product, corrections map[string]string) {
	if len(items) < 2 {
		return
	}
	med := median(items)
	exact := func(p domain.Product) bool {
		_, rescued := corrections[p.ID]
		return !rescued
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if ea, eb := exact(a), exact(b); ea != eb {
			return ea
		}
		if rule.Category == lexicon.Meat {
			if ca, cb := SubtypeOf(a) == "chicken", SubtypeOf(b) == "chicken"; ca != cb {
				return ca
			}
		}
		if rule.Essential {
			if da, db := math.Abs(a.Price-med), math.Abs(b.Price-med); da != db {
				return da < db
			}
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.ID < b.ID
	})
}

func median(items []domain.Product) float64 {
	prices := make([]float64, len(items))
	for i, p := range items {
		prices[i] = p.Price
	}
	sort.Float64s(prices)
	n := len(prices)
	if n%2 == 1 {
		return prices[n/2]
	}
	return (prices[n/2-1] + prices[n/2]) / 2
}
