package ranker

import (
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// Matches reports whether p passes every requested dietary flag and
// nutrient threshold. A threshold on a nutrient the catalog does not
// report excludes the product.
func Matches(p domain.Product, f domain.DietaryFilter) bool {
	return MatchesFlags(p, f) && matchesNutrients(p, f)
}

// MatchesFlags checks only the boolean dietary flags. Vegetarian and vegan
// requests also reject anything that reads as meat.
func MatchesFlags(p domain.Product, f domain.DietaryFilter) bool {
	if f.Vegan && !p.Vegan {
		return false
	}
	if f.Vegetarian && !(p.Vegetarian || p.Vegan) {
		return false
	}
	if (f.Vegan || f.Vegetarian) && (p.Category == lexicon.Meat || lexicon.MeatSubtype(lexicon.Normalize(p.SearchText())) != "") {
		return false
	}
	if f.NoBeef || f.NoChicken {
		text := lexicon.Normalize(p.SearchText())
		if f.NoBeef && lexicon.ContainsAny(text, lexicon.BeefKeywords) {
			return false
		}
		if f.NoChicken && lexicon.ContainsAny(text, lexicon.ChickenKeywords) {
			return false
		}
	}
	if f.Halal && !p.Halal {
		return false
	}
	if f.GlutenFree && !p.GlutenFree {
		return false
	}
	if f.Healthy && !p.Healthy {
		return false
	}
	if f.Organic && !p.Organic {
		return false
	}
	return true
}

func matchesNutrients(p domain.Product, f domain.DietaryFilter) bool {
	if f.MinProtein != nil && (p.Protein == nil || *p.Protein < *f.MinProtein) {
		return false
	}
	if f.MaxCalories != nil && (p.Calories == nil || *p.Calories > *f.MaxCalories) {
		return false
	}
	return true
}

// ApplyFilters keeps the ranked products that match f, preserving order.
func ApplyFilters(items []domain.ScoredProduct, f domain.DietaryFilter) []domain.ScoredProduct {
	if f.Empty() {
		return items
	}
	out := make([]domain.ScoredProduct, 0, len(items))
	for _, sp := range items {
		if Matches(sp.Product, f) {
			out = append(out, sp)
		}
	}
	return out
}
