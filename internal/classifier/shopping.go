package classifier

import (
	"strings"

	"ShoppingAssistant/internal/lexicon"
)

var greetings = []string{
	"hi", "hello", "hey", "hey there", "what's up", "sup", "yo", "how are you", "who are you",
	"what can you do", "help", "what do you do", "who made you", "what are you",
	"مرحبا", "اهلا", "أهلا", "السلام عليكم", "هلا", "كيفك", "مين انت", "شو بتعمل",
}

var shoppingCues = []string{
	"bbq", "barbecue", "dinner", "lunch", "party", "event", "people", "guests", "shopping", "list",
	"buy", "need", "want", "get me", "budget", "jod", "items", "products", "food for", "meal for",
	"breakfast", "make", "prepare", "include",
	"قائمة", "اشتري", "بدي", "أريد", "اريد", "ميزانية", "دينار", "أشخاص", "اشخاص", "عزومة",
}

// IsShoppingRequest tells a shopping request apart from a greeting or a
// question about the assistant. Anything naming a category or an event
// archetype counts as shopping.
func IsShoppingRequest(query string) bool {
	text := lexicon.Normalize(strings.TrimSpace(query))
	if text == "" {
		return false
	}
	trimmed := strings.Trim(text, " !?.,،؟")
	for _, g := range greetings {
		if trimmed == lexicon.Normalize(g) {
			return false
		}
	}
	if len(lexicon.CategoriesIn(text)) > 0 || lexicon.ArchetypeOf(text) != lexicon.GeneralArchetype {
		return true
	}
	for _, g := range greetings {
		if lexicon.ContainsKeyword(text, g) && strings.HasPrefix(text, lexicon.Normalize(g)) {
			return false
		}
	}
	if !lexicon.ContainsAny(text, shoppingCues) {
		return false
	}
	hasDigit := strings.ContainsAny(text, "0123456789")
	return hasDigit || len(lexicon.Tokens(text)) >= 5
}
