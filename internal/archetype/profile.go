// Package archetype describes each event archetype: which categories a list
// must cover, how much a person typically costs, and how a budget is split.
package archetype

import (
	"sort"

	"ShoppingAssistant/internal/lexicon"
)

// CategoryRule configures one required category of an archetype.
type CategoryRule struct {
	Category  string
	Priority  int
	Count     int
	Essential bool
}

// Profile is the static description of an event archetype.
type Profile struct {
	Name       string
	PerPerson  float64
	Categories []CategoryRule
	Shares     map[string]float64
}

// DefaultShare is the budget fraction for categories absent from Shares.
const DefaultShare = 0.15

var profiles = map[string]Profile{
	"bbq": {
		Name:      "bbq",
		PerPerson: 7.0,
		Categories: []CategoryRule{
			{Category: lexicon.Meat, Priority: 1, Count: 5, Essential: true},
			{Category: lexicon.Charcoal, Priority: 2, Count: 2, Essential: true},
			{Category: lexicon.Vegetables, Priority: 3, Count: 3},
			{Category: lexicon.Bread, Priority: 4, Count: 2},
			{Category: lexicon.Drinks, Priority: 5, Count: 3},
			{Category: lexicon.Supplies, Priority: 6, Count: 2},
			{Category: lexicon.Fruits, Priority: 7, Count: 2},
			{Category: lexicon.Dairy, Priority: 8, Count: 1},
		},
		Shares: map[string]float64{
			lexicon.Meat:       0.35,
			lexicon.Vegetables: 0.15,
			lexicon.Bread:      0.10,
			lexicon.Drinks:     0.15,
			lexicon.Charcoal:   0.05,
			lexicon.Supplies:   0.05,
			lexicon.Fruits:     0.10,
			lexicon.Dairy:      0.05,
		},
	},
	"dinner": {
		Name:      "dinner",
		PerPerson: 7.0,
		Categories: []CategoryRule{
			{Category: lexicon.Meat, Priority: 1, Count: 3, Essential: true},
			{Category: lexicon.Vegetables, Priority: 2, Count: 3, Essential: true},
			{Category: lexicon.Bread, Priority: 3, Count: 2},
			{Category: lexicon.Dairy, Priority: 4, Count: 2},
			{Category: lexicon.Drinks, Priority: 5, Count: 2},
			{Category: lexicon.Fruits, Priority: 6, Count: 2},
		},
		Shares: map[string]float64{
			lexicon.Meat:       0.35,
			lexicon.Vegetables: 0.20,
			lexicon.Bread:      0.10,
			lexicon.Dairy:      0.10,
			lexicon.Drinks:     0.10,
			lexicon.Fruits:     0.10,
			"general":          0.05,
		},
	},
	"lunch": {
		Name:      "lunch",
		PerPerson: 5.0,
		Categories: []CategoryRule{
			{Category: lexicon.Meat, Priority: 1, Count: 2, Essential: true},
			{Category: lexicon.Vegetables, Priority: 2, Count: 3, Essential: true},
			{Category: lexicon.Bread, Priority: 3, Count: 2},
			{Category: lexicon.Drinks, Priority: 4, Count: 2},
			{Category: lexicon.Dairy, Priority: 5, Count: 1},
		},
		Shares: map[string]float64{
			lexicon.Meat:       0.35,
			lexicon.Vegetables: 0.25,
			lexicon.Bread:      0.15,
			lexicon.Drinks:     0.15,
			lexicon.Dairy:      0.10,
		},
	},
	"breakfast": {
		Name:      "breakfast",
		PerPerson: 4.0,
		Categories: []CategoryRule{
			{Category: lexicon.Bread, Priority: 1, Count: 2, Essential: true},
			{Category: lexicon.Dairy, Priority: 2, Count: 3, Essential: true},
			{Category: lexicon.Vegetables, Priority: 3, Count: 2},
			{Category: lexicon.Drinks, Priority: 4, Count: 2},
			{Category: lexicon.Fruits, Priority: 5, Count: 2},
		},
		Shares: map[string]float64{
			lexicon.Bread:      0.20,
			lexicon.Dairy:      0.30,
			lexicon.Vegetables: 0.15,
			lexicon.Drinks:     0.15,
			lexicon.Fruits:     0.20,
		},
	},
	"party": {
		Name:      "party",
		PerPerson: 8.0,
		Categories: []CategoryRule{
			{Category: lexicon.Drinks, Priority: 1, Count: 4, Essential: true},
			{Category: lexicon.Snacks, Priority: 2, Count: 4, Essential: true},
			{Category: lexicon.Fruits, Priority: 3, Count: 2},
			{Category: lexicon.Supplies, Priority: 4, Count: 2},
			{Category: lexicon.Dairy, Priority: 5, Count: 1},
		},
		Shares: map[string]float64{
			lexicon.Drinks:   0.30,
			lexicon.Snacks:   0.30,
			lexicon.Fruits:   0.15,
			lexicon.Supplies: 0.15,
			lexicon.Dairy:    0.10,
		},
	},
	"family": {
		Name:      "family",
		PerPerson: 6.0,
		Categories: []CategoryRule{
			{Category: lexicon.Meat, Priority: 1, Count: 3, Essential: true},
			{Category: lexicon.Vegetables, Priority: 2, Count: 3, Essential: true},
			{Category: lexicon.Bread, Priority: 3, Count: 2},
			{Category: lexicon.Dairy, Priority: 4, Count: 2},
			{Category: lexicon.Fruits, Priority: 5, Count: 2},
			{Category: lexicon.Drinks, Priority: 6, Count: 2},
		},
		Shares: map[string]float64{
			lexicon.Meat:       0.30,
			lexicon.Vegetables: 0.20,
			lexicon.Bread:      0.10,
			lexicon.Dairy:      0.15,
			lexicon.Fruits:     0.10,
			lexicon.Drinks:     0.15,
		},
	},
	"traditional": {
		Name:      "traditional",
		PerPerson: 7.0,
		Categories: []CategoryRule{
			{Category: lexicon.Meat, Priority: 1, Count: 3, Essential: true},
			{Category: lexicon.Dairy, Priority: 2, Count: 2, Essential: true},
			{Category: lexicon.Bread, Priority: 3, Count: 2, Essential: true},
			{Category: lexicon.Vegetables, Priority: 4, Count: 2},
			{Category: lexicon.Drinks, Priority: 5, Count: 2},
		},
		Shares: map[string]float64{
			lexicon.Meat:       0.40,
			lexicon.Dairy:      0.20,
			lexicon.Bread:      0.15,
			lexicon.Vegetables: 0.15,
			lexicon.Drinks:     0.10,
		},
	},
	lexicon.GeneralArchetype: {
		Name:      lexicon.GeneralArchetype,
		PerPerson: 6.0,
		Categories: []CategoryRule{
			{Category: lexicon.Meat, Priority: 1, Count: 2},
			{Category: lexicon.Vegetables, Priority: 2, Count: 3},
			{Category: lexicon.Dairy, Priority: 3, Count: 2},
			{Category: lexicon.Bread, Priority: 4, Count: 1},
			{Category: lexicon.Fruits, Priority: 5, Count: 2},
			{Category: lexicon.Drinks, Priority: 6, Count: 2},
		},
		Shares: map[string]float64{
			lexicon.Meat:       0.25,
			lexicon.Vegetables: 0.20,
			lexicon.Dairy:      0.15,
			lexicon.Bread:      0.10,
			lexicon.Fruits:     0.15,
			lexicon.Drinks:     0.15,
		},
	},
}

// Lookup returns the profile for name, falling back to the general one.
func Lookup(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	return profiles[lexicon.GeneralArchetype]
}

// Names lists every archetype in lexical order.
func Names() []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// OrderedCategories returns the rules with essential categories first and
// numeric priority second.
func (p Profile) OrderedCategories() []CategoryRule {
	rules := make([]CategoryRule, len(p.Categories))
	copy(rules, p.Categories)
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Essential != rules[j].Essential {
			return rules[i].Essential
		}
		return rules[i].Priority < rules[j].Priority
	})
	return rules
}

// Rule returns the category rule, if the archetype requires that category.
func (p Profile) Rule(category string) (CategoryRule, bool) {
	for _, r := range p.Categories {
		if r.Category == category {
			return r, true
		}
	}
	return CategoryRule{}, false
}

// Share returns the budget fraction for category.
func (p Profile) Share(category string) float64 {
	if s, ok := p.Shares[category]; ok {
		return s
	}
	return DefaultShare
}
