// Package ranker scores catalog products against a query and shapes the
// top slice, either category-focused or diversified across categories.
package ranker

import (
	"math"
	"sort"
	"strings"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// Signal weights.
const (
	WeightCategory    = 200
	WeightFullQuery   = 100
	WeightExactWord   = 20
	WeightSubstring   = 10
	WeightCategoryHit = 50
	WeightNameHit     = 60
	WeightNameEqual   = 100
	WeightSynonym     = 50
	WeightDescription = 15
)

// Output shape.
const (
	Limit           = 20
	CategoryMatches = 15
	OtherMatches    = 5
)

// Rank scores every product and returns the shaped top slice. It is
// deterministic for a fixed input.
func Rank(query string, categories domain.CategorySet, products []domain.Product) []domain.ScoredProduct {
	if len(products) == 0 {
		return nil
	}
	q := lexicon.Normalize(strings.TrimSpace(query))
	words := queryWords(q)

	scored := make([]domain.ScoredProduct, 0, len(products))
	for _, p := range products {
		s := Score(q, words, categories, p)
		if s == 0 && len(categories) == 0 {
			s = 1
		}
		if s <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredProduct{Product: p, Score: s})
	}
	Sort(scored)

	if len(categories) > 0 {
		return focus(scored, categories)
	}
	return diversify(scored)
}

// Score computes the additive relevance of one product.
func Score(q string, words []string, categories domain.CategorySet, p domain.Product) int {
	text := lexicon.Normalize(p.SearchText())
	tokens := lexicon.TokenSet(text)
	names := p.Names()
	category := lexicon.Normalize(p.Category)
	description := lexicon.Normalize(p.Description)

	score := 0
	if categories.Has(category) {
		score += WeightCategory
	}
	if q != "" && strings.Contains(text, q) {
		score += WeightFullQuery
	}
	for _, w := range words {
		if _, ok := tokens[w]; ok {
			score += WeightExactWord
		}
		if strings.Contains(text, w) {
			score += WeightSubstring
		}
		if strings.Contains(category, w) {
			score += WeightCategoryHit
		}
		for _, n := range names {
			if strings.Contains(lexicon.Normalize(n), w) {
				score += WeightNameHit
				break
			}
		}
		for _, n := range names {
			if lexicon.Normalize(n) == w {
				score += WeightNameEqual
				break
			}
		}
		for _, syn := range lexicon.SynonymsOf(w) {
			if strings.Contains(text, syn) {
				score += WeightSynonym
			}
		}
		if description != "" && strings.Contains(description, w) {
			score += WeightDescription
		}
	}
	return score
}

func queryWords(q string) []string {
	var out []string
	for _, w := range lexicon.Tokens(q) {
		if len([]rune(w)) > 1 {
			out = append(out, w)
		}
	}
	return out
}

// Sort orders by score descending, then category priority, then price
// ascending, with the product id as the final tiebreak.
func Sort(items []domain.ScoredProduct) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if pa, pb := priority(a.Product.Category), priority(b.Product.Category); pa != pb {
			return pa < pb
		}
		if a.Product.Price != b.Product.Price {
			return a.Product.Price < b.Product.Price
		}
		return a.Product.ID < b.Product.ID
	})
}

func priority(category string) int {
	for i, c := range lexicon.CategoryPriority {
		if c == category {
			return i
		}
	}
	return len(lexicon.CategoryPriority)
}

func focus(scored []domain.ScoredProduct, categories domain.CategorySet) []domain.ScoredProduct {
	matches := make([]domain.ScoredProduct, 0, CategoryMatches)
	others := make([]domain.ScoredProduct, 0, OtherMatches)
	for _, sp := range scored {
		if categories.Has(sp.Product.Category) {
			if len(matches) < CategoryMatches {
				matches = append(matches, sp)
			}
			continue
		}
		if len(others) < OtherMatches {
			others = append(others, sp)
		}
	}
	return append(matches, others...)
}

// diversify samples ceil(Limit/groups) products from every category so no
// single category floods an unfocused query.
func diversify(scored []domain.ScoredProduct) []domain.ScoredProduct {
	groups := make(map[string][]domain.ScoredProduct)
	var order []string
	for _, sp := range scored {
		c := sp.Product.Category
		if _, ok := groups[c]; !ok {
			order = append(order, c)
		}
		groups[c] = append(groups[c], sp)
	}
	// scored is already sorted, so first appearance equals top score order;
	// the explicit sort pins ties to the category name.
	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]][0].Score, groups[order[j]][0].Score
		if a != b {
			return a > b
		}
		return order[i] < order[j]
	})

	per := int(math.Ceil(float64(Limit) / float64(len(order))))
	out := make([]domain.ScoredProduct, 0, Limit)
	for _, c := range order {
		g := groups[c]
		if len(g) > per {
			g = g[:per]
		}
		out = append(out, g...)
	}
	Sort(out)
	if len(out) > Limit {
		out = out[:Limit]
	}
	return out
}
