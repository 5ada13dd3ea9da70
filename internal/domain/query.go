package domain

import "sort"

// Hints are structured values supplied by a planner UI. A non-nil field
// always wins over the value extracted from free text.
type Hints struct {
	EventType        string   `json:"event_type,omitempty"`
	NumPeople        *int     `json:"num_people,omitempty"`
	Budget           *float64 `json:"budget,omitempty"`
	Dietary          string   `json:"dietary,omitempty"`
	MinProtein       *float64 `json:"min_protein,omitempty"`
	MaxCalories      *float64 `json:"max_calories,omitempty"`
	FilterHealthy    bool     `json:"filter_healthy,omitempty"`
	FilterGlutenFree bool     `json:"filter_gluten_free,omitempty"`
}

// Empty reports whether no hint was supplied at all.
func (h Hints) Empty() bool {
	return h.EventType == "" && h.NumPeople == nil && h.Budget == nil && h.Dietary == "" &&
		h.MinProtein == nil && h.MaxCalories == nil && !h.FilterHealthy && !h.FilterGlutenFree
}

// BudgetSource tells where the resolved budget came from.
type BudgetSource string

const (
	BudgetNone BudgetSource = ""
	BudgetHint BudgetSource = "hint"
	BudgetText BudgetSource = "text"
	BudgetAuto BudgetSource = "auto"
)

// DietaryFilter is the predicate applied to ranked products before assembly.
type DietaryFilter struct {
	Vegetarian  bool     `json:"vegetarian,omitempty"`
	Vegan       bool     `json:"vegan,omitempty"`
	Halal       bool     `json:"halal,omitempty"`
	GlutenFree  bool     `json:"gluten_free,omitempty"`
	Healthy     bool     `json:"healthy,omitempty"`
	Organic     bool     `json:"organic,omitempty"`
	NoBeef      bool     `json:"no_beef,omitempty"`
	NoChicken   bool     `json:"no_chicken,omitempty"`
	MinProtein  *float64 `json:"min_protein,omitempty"`
	MaxCalories *float64 `json:"max_calories,omitempty"`
}

// Empty reports whether the filter lets every product through.
func (f DietaryFilter) Empty() bool {
	return !f.HasFlags() && f.MinProtein == nil && f.MaxCalories == nil
}

// HasFlags reports whether any boolean dietary flag is requested.
func (f DietaryFilter) HasFlags() bool {
	return f.Vegetarian || f.Vegan || f.Halal || f.GlutenFree || f.Healthy || f.Organic ||
		f.NoBeef || f.NoChicken
}

// CategorySet is an unordered set of category labels.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from labels.
func NewCategorySet(labels ...string) CategorySet {
	set := make(CategorySet, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s CategorySet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Sorted returns labels in lexical order.
func (s CategorySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Intent is the classifier output for one utterance.
type Intent struct {
	Categories   CategorySet   `json:"-"`
	Headcount    int           `json:"num_people"`
	Archetype    string        `json:"event_type"`
	Budget       *float64      `json:"budget,omitempty"`
	BudgetSource BudgetSource  `json:"budget_source,omitempty"`
	Filter       DietaryFilter `json:"filter"`
	Shopping     bool          `json:"shopping"`
}
