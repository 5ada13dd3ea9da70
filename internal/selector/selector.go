// Package selector pulls a bounded, priority-ordered set of candidate
// products for every category an event archetype requires.
package selector

import (
	"log/slog"
	"strings"

	"ShoppingAssistant/internal/archetype"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// Price admissibility bounds.
const (
	MeatMinPrice       = 5.0
	MeatMaxPrice       = 100.0
	BudgetShareCeiling = 0.3
	UnbudgetedPriceCap = 50.0
)

// Subtypes the BBQ centerpiece must cover, in list order.
var bbqSubtypes = []string{"chicken", "skewer", "other"}

// Categories whose catalog tag is trusted enough that keyword rescue never
// moves a product out of them.
var trustedTags = map[string]bool{
	lexicon.Vegetables: true,
	lexicon.Fruits:     true,
	lexicon.Bread:      true,
	lexicon.Dairy:      true,
	lexicon.Drinks:     true,
	lexicon.Snacks:     true,
}

// Selector builds candidate pools. It never mutates the catalog: products
// are values and re-tagged copies are reported in Corrections.
type Selector struct {
	logger *slog.Logger
}

// New constructs a selector. logger may be nil.
func New(logger *slog.Logger) *Selector {
	if logger != nil {
		logger = logger.With("component", "selector")
	}
	return &Selector{logger: logger}
}

// Select gathers candidates for the archetype's categories. budget may be
// nil.
func (s *Selector) Select(name string, budget *float64, catalog []domain.Product) domain.CandidatePool {
	profile := archetype.Lookup(name)
	pool := domain.CandidatePool{
		ByCategory:  make(map[string][]domain.Product),
		Essential:   make(map[string]bool),
		Corrections: make(map[string]string),
	}

	for _, rule := range profile.OrderedCategories() {
		candidates := s.gather(rule, budget, catalog, pool.Corrections)
		if len(candidates) == 0 && rule.Essential {
			candidates = keywordSearch(rule, budget, catalog, pool.Corrections)
			s.debug("essential category fell back to keyword search", "category", rule.Category, "found", len(candidates))
		}
		sortCandidates(rule, candidates, pool.Corrections)

		if profile.Name == "bbq" && rule.Category == lexicon.Meat {
			candidates = s.bbqMeat(rule, budget, candidates, catalog, pool.Corrections)
		} else if len(candidates) > rule.Count {
			candidates = candidates[:rule.Count]
		}

		pool.Order = append(pool.Order, rule.Category)
		pool.ByCategory[rule.Category] = candidates
		pool.Essential[rule.Category] = rule.Essential
		s.debug("category candidates", "category", rule.Category, "essential", rule.Essential, "count", len(candidates))
	}
	return pool
}

// Admissible applies the per-category price filter.
func Admissible(category string, essential bool, price float64, budget *float64) bool {
	if !(price > 0) {
		return false
	}
	if category == lexicon.Meat && essential {
		return price > MeatMinPrice && price < MeatMaxPrice
	}
	if budget != nil {
		return price < *budget*BudgetShareCeiling
	}
	return price < UnbudgetedPriceCap
}

func (s *Selector) gather(rule archetype.CategoryRule, budget *float64, catalog []domain.Product, corrections map[string]string) []domain.Product {
	var out []domain.Product
	for _, p := range catalog {
		if !p.Valid() || !Admissible(rule.Category, rule.Essential, p.Price, budget) {
			continue
		}
		if p.Category == rule.Category {
			out = append(out, p)
			continue
		}
		if !rescuable(rule.Category, p) {
			continue
		}
		out = append(out, retag(p, rule.Category, corrections))
	}
	return out
}

// rescuable reports whether a product tagged elsewhere belongs to category
// by keyword. Only meat and charcoal are rescued this way.
func rescuable(category string, p domain.Product) bool {
	if category != lexicon.Meat && category != lexicon.Charcoal {
		return false
	}
	if trustedTags[p.Category] {
		return false
	}
	return lexicon.ContainsAny(productText(p), lexicon.CategoryKeywords[category])
}

// keywordSearch looks across the whole catalog, ignoring tags, for products
// whose text names the category.
func keywordSearch(rule archetype.CategoryRule, budget *float64, catalog []domain.Product, corrections map[string]string) []domain.Product {
	keywords := lexicon.CategoryKeywords[rule.Category]
	if len(keywords) == 0 {
		keywords = []string{rule.Category}
	}
	var out []domain.Product
	for _, p := range catalog {
		if !p.Valid() || !Admissible(rule.Category, rule.Essential, p.Price, budget) {
			continue
		}
		if !lexicon.ContainsAny(productText(p), keywords) {
			continue
		}
		out = append(out, retag(p, rule.Category, corrections))
	}
	return out
}

func retag(p domain.Product, category string, corrections map[string]string) domain.Product {
	if p.Category != category {
		corrections[p.ID] = category
		p.Category = category
	}
	return p
}

func productText(p domain.Product) string {
	return lexicon.Normalize(strings.Join(p.Names(), " ") + " " + p.Description)
}

// bbqMeat guarantees one chicken, one skewer and one other-meat product
// when the catalog has them, then fills the rest of the category count.
func (s *Selector) bbqMeat(rule archetype.CategoryRule, budget *float64, candidates, catalog []domain.Product, corrections map[string]string) []domain.Product {
	heads := make(map[string]domain.Product, len(bbqSubtypes))
	for _, p := range candidates {
		sub := lexicon.MeatSubtype(productText(p))
		if _, ok := heads[sub]; sub != "" && !ok {
			heads[sub] = p
		}
	}

	taken := make(map[string]bool, len(candidates))
	for _, p := range candidates {
		taken[p.ID] = true
	}
	for _, sub := range bbqSubtypes {
		if _, ok := heads[sub]; ok {
			continue
		}
		if p, ok := backfill(sub, rule, budget, catalog, taken); ok {
			heads[sub] = retag(p, lexicon.Meat, corrections)
			taken[p.ID] = true
			s.debug("bbq subtype backfilled", "subtype", sub, "product", p.ID)
		}
	}

	out := make([]domain.Product, 0, rule.Count)
	used := make(map[string]bool, rule.Count)
	for _, sub := range bbqSubtypes {
		if p, ok := heads[sub]; ok {
			out = append(out, p)
			used[p.ID] = true
		}
	}
	for _, p := range candidates {
		if len(out) >= max(rule.Count, len(heads)) {
			break
		}
		if used[p.ID] {
			continue
		}
		out = append(out, p)
		used[p.ID] = true
	}
	return out
}

func backfill(sub string, rule archetype.CategoryRule, budget *float64, catalog []domain.Product, taken map[string]bool) (domain.Product, bool) {
	var found []domain.Product
	for _, p := range catalog {
		if taken[p.ID] || !p.Valid() || !Admissible(lexicon.Meat, rule.Essential, p.Price, budget) {
			continue
		}
		if lexicon.MeatSubtype(productText(p)) == sub {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return domain.Product{}, false
	}
	sortCandidates(rule, found, nil)
	return found[0], true
}

// SubtypeOf exposes the BBQ meat classification of a product.
func SubtypeOf(p domain.Product) string {
	return lexicon.MeatSubtype(productText(p))
}

func (s *Selector) debug(msg string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}
