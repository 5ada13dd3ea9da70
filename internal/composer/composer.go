// Package composer renders engine output for people: the chat reply, the
// greeting for non-shopping messages, and the list exports.
package composer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// Languages a reply can be written in.
const (
	English = "en"
	Arabic  = "ar"
)

// Message is a composed reply.
type Message struct {
	Text        string   `json:"message"`
	Language    string   `json:"language"`
	Suggestions []string `json:"suggestions,omitempty"`
	Recipes     []Recipe `json:"recipes,omitempty"`
}

var suggestions = map[string][]string{
	English: {"BBQ for 10 people, budget 60 JOD", "breakfast for 4", "dinner for 6 people"},
	Arabic:  {"مشاوي لـ 10 أشخاص بميزانية 60 دينار", "فطور لـ 4 أشخاص", "عشاء لـ 6 أشخاص"},
}

var categoryTitles = map[string][2]string{
	lexicon.Meat:       {"Meat", "لحوم"},
	lexicon.Charcoal:   {"Charcoal", "فحم"},
	lexicon.Vegetables: {"Vegetables", "خضار"},
	lexicon.Fruits:     {"Fruits", "فواكه"},
	lexicon.Bread:      {"Bread", "خبز"},
	lexicon.Dairy:      {"Dairy", "ألبان"},
	lexicon.Drinks:     {"Drinks", "مشروبات"},
	lexicon.Supplies:   {"Supplies", "مستلزمات"},
	lexicon.Snacks:     {"Snacks", "تسالي"},
}

// LanguageOf picks Arabic when the query has Arabic letters.
func LanguageOf(query string) string {
	if lexicon.HasArabic(query) {
		return Arabic
	}
	return English
}

// Money formats an amount with two decimals.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Greeting answers a message that is not a shopping request.
func Greeting(query string) Message {
	lang := LanguageOf(query)
	text := "Hi! Tell me what you are planning, how many people and your budget, and I will build a shopping list."
	if lang == Arabic {
		text = "أهلاً! أخبرني ماذا تخطط وكم عدد الأشخاص وما هي ميزانيتك وسأجهز لك قائمة التسوق."
	}
	return Message{Text: text, Language: lang, Suggestions: suggestions[lang]}
}

// Compose writes the reply for an assembled list. An empty list always
// yields suggestions instead of a blank answer.
func Compose(query string, list domain.ShoppingList, ranked []domain.ScoredProduct) Message {
	lang := LanguageOf(query)
	if list.Empty() {
		return noMatches(lang, ranked)
	}

	var b strings.Builder
	if lang == Arabic {
		fmt.Fprintf(&b, "قائمة %s لـ %d أشخاص:\n", eventTitle(list.EventType, lang), list.NumPeople)
	} else {
		fmt.Fprintf(&b, "Your %s list for %d %s:\n", eventTitle(list.EventType, lang), list.NumPeople, plural(list.NumPeople, "person", "people"))
	}

	for _, group := range groupByCategory(list.Items) {
		fmt.Fprintf(&b, "\n%s:\n", CategoryTitle(group.category, lang))
		for _, it := range group.items {
			fmt.Fprintf(&b, "- %s x%d: %s %s\n", it.Name, it.Quantity, Money(it.Total()), it.Currency)
		}
	}

	b.WriteString("\n")
	if lang == Arabic {
		fmt.Fprintf(&b, "المجموع: %s %s", Money(list.TotalCost), list.Currency)
		if list.Budget != nil {
			fmt.Fprintf(&b, " من ميزانية %s", Money(*list.Budget))
			if list.BudgetAuto {
				b.WriteString(" (مقترحة)")
			}
		}
	} else {
		fmt.Fprintf(&b, "Total: %s %s", Money(list.TotalCost), list.Currency)
		if list.Budget != nil {
			fmt.Fprintf(&b, " of a %s budget", Money(*list.Budget))
			if list.BudgetAuto {
				b.WriteString(" (suggested)")
			}
		}
	}

	var recipes []Recipe
	for _, r := range Recipes(list) {
		if r.MatchPercent > 0 {
			recipes = append(recipes, r)
		}
	}
	writeRecipes(&b, recipes, lang)
	return Message{Text: b.String(), Language: lang, Recipes: recipes}
}

func writeRecipes(b *strings.Builder, recipes []Recipe, lang string) {
	if len(recipes) == 0 {
		return
	}
	if lang == Arabic {
		b.WriteString("\n\nوصفات مقترحة:")
		for _, r := range recipes {
			fmt.Fprintf(b, "\n- %s (تكفي %d، %d%% من المكونات)", r.NameAR, r.Servings, r.MatchPercent)
		}
		return
	}
	b.WriteString("\n\nRecipe ideas:")
	for _, r := range recipes {
		fmt.Fprintf(b, "\n- %s (serves %d, %d%% of ingredients)", r.Name, r.Servings, r.MatchPercent)
	}
}

func noMatches(lang string, ranked []domain.ScoredProduct) Message {
	var b strings.Builder
	if lang == Arabic {
		b.WriteString("لم أجد منتجات مناسبة. جرّب:")
	} else {
		b.WriteString("No matching products found. Try:")
	}
	for _, s := range suggestions[lang] {
		fmt.Fprintf(&b, "\n- %s", s)
	}
	if len(ranked) > 0 {
		if lang == Arabic {
			b.WriteString("\n\nمنتجات قد تهمك:")
		} else {
			b.WriteString("\n\nRelated products:")
		}
		for i, sp := range ranked {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "\n- %s (%s %s)", sp.Product.DisplayName(), Money(sp.Product.Price), sp.Product.Currency)
		}
	}
	return Message{Text: b.String(), Language: lang, Suggestions: suggestions[lang]}
}

// CategoryTitle is the display title of a category label.
func CategoryTitle(category, lang string) string {
	if t, ok := categoryTitles[category]; ok {
		if lang == Arabic {
			return t[1]
		}
		return t[0]
	}
	if category == "" {
		return "Other"
	}
	r, size := utf8.DecodeRuneInString(category)
	return string(unicode.ToUpper(r)) + category[size:]
}

func eventTitle(event, lang string) string {
	if lang == Arabic {
		switch event {
		case "bbq":
			return "المشاوي"
		case "dinner":
			return "العشاء"
		case "lunch":
			return "الغداء"
		case "breakfast":
			return "الفطور"
		case "party":
			return "الحفلة"
		case "family":
			return "العزومة العائلية"
		case "traditional":
			return "الأكلة التقليدية"
		default:
			return "التسوق"
		}
	}
	switch event {
	case "bbq":
		return "BBQ"
	case "", lexicon.GeneralArchetype:
		return "shopping"
	default:
		return event
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

type categoryGroup struct {
	category string
	items    []domain.LineItem
}

// groupByCategory keeps the first-appearance order of categories.
func groupByCategory(items []domain.LineItem) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(groups)
			index[it.Category] = i
			groups = append(groups, categoryGroup{category: it.Category})
		}
		groups[i].items = append(groups[i].items, it)
	}
	return groups
}
