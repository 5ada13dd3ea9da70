package composer

import (
	"math"
	"sort"
	"strings"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// MaxRecipes bounds the suggestions attached to one list.
const MaxRecipes = 3

// Recipe is a dish the list can go towards.
type Recipe struct {
	Name         string   `json:"name"`
	NameAR       string   `json:"name_ar,omitempty"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Scaled       bool     `json:"scaled,omitempty"`
	MatchPercent int      `json:"match_percentage"`
}

var recipeBook = map[string][]Recipe{
	"bbq": {
		{Name: "Classic BBQ Ribeye Steak", NameAR: "ستيك ريب آي مشوي", Description: "Grilled ribeye with herbs and spices",
			Ingredients: []string{"ribeye steak", "salt", "pepper", "garlic", "olive oil"}, PrepTime: "10 min", CookTime: "15 min", Servings: 4, Difficulty: "Easy"},
		{Name: "Grilled Chicken Shish Tawook", NameAR: "شيش طاووق مشوي", Description: "Middle Eastern grilled chicken skewers",
			Ingredients: []string{"chicken breast", "yogurt", "garlic", "lemon", "spices"}, PrepTime: "30 min", CookTime: "20 min", Servings: 6, Difficulty: "Medium"},
		{Name: "BBQ Lamb Chops", NameAR: "ريش خروف مشوية", Description: "Lamb chops with mint and rosemary",
			Ingredients: []string{"lamb chops", "mint", "rosemary", "garlic", "olive oil"}, PrepTime: "15 min", CookTime: "12 min", Servings: 4, Difficulty: "Easy"},
	},
	"breakfast": {
		{Name: "Traditional Jordanian Breakfast", NameAR: "فطور أردني تقليدي", Description: "Hummus, falafel and a full spread",
			Ingredients: []string{"hummus", "falafel", "bread", "olives", "labneh", "zaatar", "tomatoes", "cucumbers"}, PrepTime: "20 min", CookTime: "15 min", Servings: 6, Difficulty: "Easy"},
		{Name: "Hummus with Falafel", NameAR: "حمص وفلافل", Description: "Classic breakfast combination",
			Ingredients: []string{"hummus", "falafel", "bread", "tahini", "olive oil"}, PrepTime: "10 min", CookTime: "10 min", Servings: 4, Difficulty: "Easy"},
		{Name: "Labneh with Zaatar", NameAR: "لبنة وزعتر", Description: "Labneh topped with zaatar and olive oil",
			Ingredients: []string{"labneh", "zaatar", "olive oil", "bread", "olives"}, PrepTime: "5 min", CookTime: "0 min", Servings: 4, Difficulty: "Very Easy"},
	},
	"dinner": {
		{Name: "Traditional Mansaf", NameAR: "منسف", Description: "Lamb cooked in jameed yogurt over rice",
			Ingredients: []string{"lamb", "yogurt", "rice", "bread", "almonds", "pine nuts"}, PrepTime: "30 min", CookTime: "2 hours", Servings: 8, Difficulty: "Hard"},
		{Name: "Chicken Maqluba", NameAR: "مقلوبة دجاج", Description: "Upside-down rice and chicken",
			Ingredients: []string{"chicken", "rice", "eggplant", "tomatoes", "onions", "spices"}, PrepTime: "45 min", CookTime: "1 hour", Servings: 6, Difficulty: "Medium"},
		{Name: "Grilled Chicken with Tabbouleh", NameAR: "دجاج مشوي مع تبولة", Description: "Grilled chicken with fresh tabbouleh",
			Ingredients: []string{"chicken", "tabbouleh", "bread", "lemon", "olive oil"}, PrepTime: "20 min", CookTime: "25 min", Servings: 4, Difficulty: "Easy"},
	},
	"party": {
		{Name: "Mixed Appetizer Platter", NameAR: "تشكيلة مقبلات", Description: "A spread of Middle Eastern appetizers",
			Ingredients: []string{"hummus", "falafel", "tabbouleh", "fattoush", "olives", "bread"}, PrepTime: "30 min", CookTime: "15 min", Servings: 10, Difficulty: "Easy"},
		{Name: "BBQ Party Platter", NameAR: "طبق مشاوي مشكل", Description: "Mixed grilled meats and salads",
			Ingredients: []string{"chicken", "beef", "vegetables", "salads", "bread", "sauces"}, PrepTime: "45 min", CookTime: "30 min", Servings: 12, Difficulty: "Medium"},
	},
}

// archetypes without their own recipes borrow a close one
var recipeAliases = map[string]string{
	"lunch":       "dinner",
	"family":      "dinner",
	"traditional": "dinner",
}

// Recipes suggests up to MaxRecipes dishes for the list's event, best
// ingredient coverage first. Servings are raised to the headcount.
func Recipes(list domain.ShoppingList) []Recipe {
	event := list.EventType
	if alias, ok := recipeAliases[event]; ok {
		event = alias
	}
	book, ok := recipeBook[event]
	if !ok {
		book = recipeBook["bbq"]
	}

	names := make([]string, 0, len(list.Items))
	for _, it := range list.Items {
		if n := lexicon.Normalize(strings.TrimSpace(it.Name)); n != "" {
			names = append(names, n)
		}
	}

	out := make([]Recipe, 0, len(book))
	for _, r := range book {
		r.Ingredients = append([]string(nil), r.Ingredients...)
		matched := 0
		for _, ing := range r.Ingredients {
			if hasIngredient(names, ing) {
				matched++
			}
		}
		if len(r.Ingredients) > 0 {
			r.MatchPercent = int(math.Round(float64(matched) * 100 / float64(len(r.Ingredients))))
		}
		if r.Servings < list.NumPeople {
			r.Servings = list.NumPeople
			r.Scaled = true
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchPercent > out[j].MatchPercent
	})
	if len(out) > MaxRecipes {
		out = out[:MaxRecipes]
	}
	return out
}

// hasIngredient matches when a product name and the ingredient contain one
// another, or when the product names the ingredient's head word
// ("chicken breast" is covered by "Chicken Thighs").
func hasIngredient(names []string, ingredient string) bool {
	head, _, _ := strings.Cut(ingredient, " ")
	for _, n := range names {
		if strings.Contains(n, ingredient) || strings.Contains(ingredient, n) {
			return true
		}
		if len(head) >= 4 && lexicon.ContainsKeyword(n, head) {
			return true
		}
	}
	return false
}
