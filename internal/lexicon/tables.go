package lexicon

import (
	"sort"
	"strings"
)

// Category labels the engine knows about. Catalog labels outside this list
// are still accepted; they just have no keyword coverage.
const (
	Meat       = "meat"
	Charcoal   = "charcoal"
	Vegetables = "vegetables"
	Fruits     = "fruits"
	Bread      = "bread"
	Dairy      = "dairy"
	Drinks     = "drinks"
	Supplies   = "supplies"
	Snacks     = "snacks"
)

// CategoryPriority orders categories when ties need a stable tiebreak.
var CategoryPriority = []string{Meat, Vegetables, Fruits, Bread, Dairy, Drinks, Charcoal, Supplies, Snacks}

// CategoryKeywords lists the words that identify a category in product
// text and in queries.
var CategoryKeywords = map[string][]string{
	Meat: {
		"meat", "beef", "lamb", "mutton", "veal", "chicken", "poultry", "kofta", "kofte", "kebab", "kabab",
		"shish", "tawook", "steak", "burger", "sausage", "minced",
		"لحم", "لحوم", "دجاج", "جاج", "فراخ", "خروف", "غنم", "عجل", "بقر", "كفتة", "كباب", "شيش",
		"طاووق", "ستيك", "برجر", "نقانق", "سجق", "مفروم",
	},
	Charcoal: {"charcoal", "coal", "فحم"},
	Vegetables: {
		"vegetable", "veggies", "tomato", "cucumber", "onion", "potato", "pepper", "lettuce", "parsley", "salad",
		"خضار", "خضروات", "خضرة", "بندورة", "طماطم", "خيار", "بصل", "بطاطا", "فلفل", "خس", "بقدونس", "سلطة",
	},
	Fruits: {
		"fruit", "apple", "banana", "orange", "grape", "watermelon", "melon",
		"فواكه", "فاكهة", "تفاح", "موز", "برتقال", "عنب", "بطيخ", "شمام",
	},
	Bread: {
		"bread", "khubz", "pita", "bun", "taboon", "toast",
		"خبز", "صمون", "كعك", "شراك", "طابون", "توست",
	},
	Dairy: {
		"milk", "cheese", "yogurt", "yoghurt", "laban", "labneh", "butter", "cream", "dairy",
		"حليب", "جبنة", "جبن", "لبن", "لبنة", "زبدة", "ألبان", "البان", "قشطة",
	},
	Drinks: {
		"drink", "water", "juice", "cola", "soda", "pepsi", "beverage",
		"مشروبات", "مشروب", "مياه", "عصير", "كولا", "بيبسي", "غازية",
	},
	Supplies: {
		"plate", "cup", "napkin", "foil", "tissue", "disposable", "utensil", "supplies",
		"صحون", "كاسات", "محارم", "أدوات", "ادوات",
	},
	Snacks: {
		"snack", "chips", "nuts", "biscuit", "chocolate", "popcorn", "candy",
		"سناك", "شيبس", "مكسرات", "بسكويت", "شوكولاتة", "شوكولاته", "فشار",
	},
}

// eventPhrases are query words that imply categories without naming them.
var eventPhrases = map[string][]string{
	"bbq":       {Meat, Charcoal},
	"barbecue":  {Meat, Charcoal},
	"barbeque":  {Meat, Charcoal},
	"grill":     {Meat, Charcoal},
	"مشاوي":     {Meat, Charcoal},
	"مشاوى":     {Meat, Charcoal},
	"شواء":      {Meat, Charcoal},
	"باربكيو":   {Meat, Charcoal},
	"منقل":      {Charcoal},
	"breakfast": {Bread, Dairy},
	"فطور":      {Bread, Dairy},
	"mansaf":    {Meat, Dairy},
	"منسف":      {Meat, Dairy},
}

// queryIndex maps every known keyword or phrase to its categories.
var queryIndex = buildQueryIndex()

func buildQueryIndex() map[string][]string {
	index := make(map[string][]string)
	add := func(kw, category string) {
		for _, c := range index[kw] {
			if c == category {
				return
			}
		}
		index[kw] = append(index[kw], category)
	}
	for category, keywords := range CategoryKeywords {
		for _, kw := range keywords {
			add(kw, category)
		}
	}
	for phrase, categories := range eventPhrases {
		for _, c := range categories {
			add(phrase, c)
		}
	}
	return index
}

// CategoriesIn returns the sorted, de-duplicated categories mentioned in a
// normalized query.
func CategoriesIn(text string) []string {
	found := make(map[string]struct{})
	for kw, categories := range queryIndex {
		if !ContainsKeyword(text, kw) {
			continue
		}
		for _, c := range categories {
			found[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(found))
	for c := range found {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Synonyms are bilingual groups used by the relevance ranker.
var Synonyms = [][]string{
	{"chicken", "دجاج", "جاج", "فراخ"},
	{"milk", "حليب", "لبن", "ألبان"},
	{"meat", "لحم", "لحوم", "لحمة"},
	{"vegetables", "خضار", "خضروات"},
	{"fruits", "فواكه", "فاكهة"},
	{"bread", "خبز"},
	{"drinks", "مشروبات", "مشروب"},
	{"charcoal", "فحم"},
}

func init() {
	for _, group := range Synonyms {
		for i, term := range group {
			group[i] = Normalize(term)
		}
	}
}

// SynonymsOf returns the other members of the group word belongs to,
// skipping members the word already contains.
func SynonymsOf(word string) []string {
	for _, group := range Synonyms {
		if !groupHas(group, word) {
			continue
		}
		out := make([]string, 0, len(group)-1)
		for _, term := range group {
			if term == word || strings.Contains(word, term) {
				continue
			}
			out = append(out, term)
		}
		return out
	}
	return nil
}

func groupHas(group []string, word string) bool {
	for _, term := range group {
		if term == word {
			return true
		}
		if !IsASCII(term) && strings.Contains(word, term) {
			return true
		}
	}
	return false
}

// Meat subtype keywords used for the BBQ centerpiece rule. Skewer is
// checked before chicken so "shish tawook" counts as a skewer.
var (
	SkewerKeywords  = []string{"shish", "kebab", "kabab", "kabob", "skewer", "شيش", "كباب", "سيخ", "اسياخ", "أسياخ"}
	ChickenKeywords = []string{"chicken", "poultry", "tawook", "دجاج", "جاج", "فراخ", "طاووق"}
	BeefKeywords    = []string{"beef", "veal", "بقر", "عجل"}
	RedMeatKeywords = []string{
		"beef", "lamb", "mutton", "veal", "kofta", "kofte", "steak", "burger", "sausage", "minced", "meat",
		"لحم", "خروف", "غنم", "عجل", "بقر", "كفتة", "ستيك", "برجر", "نقانق", "سجق", "مفروم",
	}
)

// MeatSubtype classifies normalized product text for the BBQ rule.
func MeatSubtype(text string) string {
	switch {
	case ContainsAny(text, SkewerKeywords):
		return "skewer"
	case ContainsAny(text, ChickenKeywords):
		return "chicken"
	case ContainsAny(text, RedMeatKeywords):
		return "other"
	default:
		return ""
	}
}

// ArchetypeRule binds an event archetype to its trigger words.
type ArchetypeRule struct {
	Name     string
	Keywords []string
}

// GeneralArchetype is used when no rule matches.
const GeneralArchetype = "general"

// ArchetypeRules are checked in order; the first match wins.
var ArchetypeRules = []ArchetypeRule{
	{Name: "bbq", Keywords: []string{"bbq", "barbecue", "barbeque", "grill", "مشاوي", "مشاوى", "شواء", "باربكيو", "منقل"}},
	{Name: "dinner", Keywords: []string{"dinner", "supper", "عشاء", "عشا"}},
	{Name: "lunch", Keywords: []string{"lunch", "غداء"}},
	{Name: "breakfast", Keywords: []string{"breakfast", "brunch", "فطور", "افطار", "إفطار", "ريوق", "فطار"}},
	{Name: "party", Keywords: []string{"party", "celebration", "birthday", "حفلة", "حفله", "عيد ميلاد", "سهرة"}},
	{Name: "family", Keywords: []string{"family", "gathering", "عائلة", "عائلي", "العيلة", "عزومة"}},
	{Name: "traditional", Keywords: []string{"traditional", "jordanian", "mansaf", "منسف", "تقليدي", "شعبي", "مقلوبة"}},
}

// ArchetypeOf returns the first archetype whose keywords appear in text.
func ArchetypeOf(text string) string {
	for _, rule := range ArchetypeRules {
		if ContainsAny(text, rule.Keywords) {
			return rule.Name
		}
	}
	return GeneralArchetype
}

// KnownArchetype reports whether name is one of the fixed archetypes.
func KnownArchetype(name string) bool {
	if name == GeneralArchetype {
		return true
	}
	for _, rule := range ArchetypeRules {
		if rule.Name == name {
			return true
		}
	}
	return false
}
