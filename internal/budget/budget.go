// Package budget holds the pure money and quantity arithmetic of list
// building: the auto budget for a group, its split across categories, and
// how many units of a product to buy.
package budget

import (
	"math"

	"ShoppingAssistant/internal/archetype"
	"ShoppingAssistant/internal/lexicon"
)

const (
	// MinimumOrder is the smallest auto budget ever proposed.
	MinimumOrder = 15.0
	// SmallGroupPremium applies to groups of two or fewer.
	SmallGroupPremium = 1.2
	roundStep         = 5.0
)

// ComputeBudget proposes a budget for headcount people at an event of the
// given archetype.
func ComputeBudget(headcount int, name string) float64 {
	if headcount < 1 {
		headcount = 1
	}
	b := archetype.Lookup(name).PerPerson * float64(headcount)
	if headcount <= 2 {
		b *= SmallGroupPremium
	}
	// the epsilon keeps 7*14=98.00000001 style float noise from jumping a step
	b = math.Ceil(b/roundStep-1e-9) * roundStep
	return math.Max(b, MinimumOrder)
}

// Allocation maps category labels to their slice of the budget.
type Allocation struct {
	Total      float64
	Categories map[string]float64
}

// Allocate splits total across the archetype's categories.
func Allocate(total float64, name string) Allocation {
	profile := archetype.Lookup(name)
	out := Allocation{Total: total, Categories: make(map[string]float64, len(profile.Shares))}
	for category, share := range profile.Shares {
		out.Categories[category] = total * share
	}
	return out
}

// For returns the category's allotment, falling back to the default share.
func (a Allocation) For(category string) float64 {
	if v, ok := a.Categories[category]; ok {
		return v
	}
	return a.Total * archetype.DefaultShare
}

// MinimumUnits is the small headcount-informed floor used when a budget
// drives quantities. From six people on, the archetype's lead category (its
// first essential one) gets at least two units.
func MinimumUnits(name, category string, headcount int) int {
	base := 1
	switch category {
	case lexicon.Meat:
		if headcount > 6 {
			base = 2
		}
	case lexicon.Vegetables:
		base = min(1+headcount/8, 3)
	case lexicon.Fruits:
		base = min(1+headcount/8, 2)
	case lexicon.Drinks:
		base = min(1+headcount/6, 3)
	case lexicon.Bread:
		base = min(1+headcount/10, 2)
	}
	if headcount >= leadGroup && isLead(name, category) {
		return max(base, 2)
	}
	return base
}

const leadGroup = 6

func isLead(name, category string) bool {
	ordered := archetype.Lookup(name).OrderedCategories()
	return len(ordered) > 0 && ordered[0].Essential && ordered[0].Category == category
}

// QuantityForBudget returns how many units of a product priced unitPrice
// to take given the remaining category and overall money. ok is false when
// not even one unit is affordable or the price is unusable.
func QuantityForBudget(name, category string, unitPrice, categoryRemaining, overallRemaining float64, headcount int) (int, bool) {
	if !(unitPrice > 0) || math.IsInf(unitPrice, 0) {
		return 0, false
	}
	room := math.Min(categoryRemaining, overallRemaining)
	if !(room > 0) {
		return 0, false
	}
	maxAffordable := int(math.Floor(room/unitPrice + 1e-9))
	if maxAffordable <= 0 {
		return 0, false
	}
	minimum := MinimumUnits(name, category, headcount)
	return max(minimum, min(maxAffordable, minimum+2)), true
}

type portion struct {
	ratio float64
	cap   int
}

var portions = map[string]portion{
	lexicon.Meat:       {ratio: 0.2, cap: 6},
	lexicon.Vegetables: {ratio: 0.3, cap: 8},
	lexicon.Fruits:     {ratio: 0.1, cap: 6},
	lexicon.Bread:      {ratio: 0.1, cap: 5},
	lexicon.Drinks:     {ratio: 0.5, cap: 8},
	lexicon.Dairy:      {ratio: 0.3, cap: 6},
	lexicon.Charcoal:   {ratio: 0.2, cap: 3},
	lexicon.Supplies:   {ratio: 0, cap: 1},
}

var defaultPortion = portion{ratio: 0.25, cap: 4}

// QuantityForHeadcount portions a product when there is no budget. Large
// groups get at most one unit of very expensive items and three of
// moderately expensive ones.
func QuantityForHeadcount(category string, unitPrice float64, headcount int) int {
	if headcount < 1 {
		headcount = 1
	}
	p, ok := portions[category]
	if !ok {
		p = defaultPortion
	}
	q := int(math.Ceil(p.ratio*float64(headcount) - 1e-9))
	q = min(max(q, 1), p.cap)
	if headcount > 10 {
		switch {
		case unitPrice > 50:
			q = min(q, 1)
		case unitPrice > 20:
			q = min(q, 3)
		}
	}
	return q
}
