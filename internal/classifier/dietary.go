package classifier

import (
	"strings"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

var (
	vegetarianCues = []string{"vegetarian", "veggie only", "veg only", "no meat", "نباتي", "بدون لحم"}
	veganCues      = []string{"vegan", "نباتي صرف", "فيغان"}
	halalCues      = []string{"halal", "حلال"}
	glutenFreeCues = []string{"gluten free", "gluten-free", "glutenfree", "خالي من الجلوتين", "خالي من الغلوتين", "بدون جلوتين", "بدون غلوتين"}
	healthyCues    = []string{"healthy", "صحي"}
	organicCues    = []string{"organic", "عضوي"}
	noBeefCues     = []string{"no beef", "without beef", "beef free", "بدون لحم بقر", "بدون لحمة بقر", "بدون بقر", "بلا لحم بقر"}
	noChickenCues  = []string{"no chicken", "without chicken", "chicken free", "بدون دجاج", "بدون جاج", "بلا دجاج"}
)

// resolveFilter merges dietary hints with cues found in text. A dietary
// hint replaces the text flags; nutrient hints replace their text values.
func resolveFilter(text string, hints domain.Hints) domain.DietaryFilter {
	var f domain.DietaryFilter
	if hints.Dietary != "" {
		applyDietaryLabel(&f, hints.Dietary)
	} else {
		f.NoBeef = lexicon.ContainsAny(text, noBeefCues)
		f.NoChicken = lexicon.ContainsAny(text, noChickenCues)
		// "بدون لحم بقر" must not read as "بدون لحم"
		rest := stripCues(text, noBeefCues, noChickenCues)
		f.Vegan = lexicon.ContainsAny(rest, veganCues)
		f.Vegetarian = !f.Vegan && lexicon.ContainsAny(rest, vegetarianCues)
		f.Halal = lexicon.ContainsAny(text, halalCues)
		f.GlutenFree = lexicon.ContainsAny(text, glutenFreeCues)
		f.Healthy = lexicon.ContainsAny(text, healthyCues)
		f.Organic = lexicon.ContainsAny(text, organicCues)
	}
	f.Healthy = f.Healthy || hints.FilterHealthy
	f.GlutenFree = f.GlutenFree || hints.FilterGlutenFree

	if hints.MinProtein != nil {
		v := *hints.MinProtein
		f.MinProtein = &v
	} else if v, ok := minProteinRule.Extract(text); ok && v > 0 {
		f.MinProtein = &v
	}
	if hints.MaxCalories != nil {
		v := *hints.MaxCalories
		f.MaxCalories = &v
	} else if v, ok := maxCaloriesRule.Extract(text); ok && v > 0 {
		f.MaxCalories = &v
	}
	return f
}

func stripCues(text string, groups ...[]string) string {
	for _, cues := range groups {
		for _, c := range cues {
			text = strings.ReplaceAll(text, lexicon.Normalize(c), " ")
		}
	}
	return text
}

func applyDietaryLabel(f *domain.DietaryFilter, label string) {
	switch label {
	case "vegetarian":
		f.Vegetarian = true
	case "vegan":
		f.Vegan = true
	case "halal":
		f.Halal = true
	case "gluten-free":
		f.GlutenFree = true
	case "healthy":
		f.Healthy = true
	case "organic":
		f.Organic = true
	case "no-beef":
		f.NoBeef = true
	case "no-chicken":
		f.NoChicken = true
	}
}
