package classifier

import (
	"regexp"
	"strconv"
	"strings"
)

// Rule is one named numeric extraction. Rules are tried in order and the
// first success wins.
type Rule struct {
	Name    string
	Extract func(text string) (float64, bool)
}

// A comma before exactly three digits groups thousands ("1,200"); a comma
// before one or two digits is a decimal mark ("12,5").
const number = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+|,\d{1,2})?)`

var (
	reHeadcountUnit = regexp.MustCompile(`(\d+)\s*(?:people|persons|person|guests|guest|pax|ppl|individuals|أشخاص|اشخاص|شخص|أفراد|افراد|نفر|ضيوف|ضيف)`)
	reHeadcountFor  = regexp.MustCompile(`(?:^|[^\p{L}\d])(?:for|ل)\s*(\d+)`)
	reBareInteger   = regexp.MustCompile(`\d+`)
	reGrouped       = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)

	reCurrencyAmount = regexp.MustCompile(number + `\s*(?:jod|jd|dinars|dinar|دينار|دنانير)`)
	reBudgetKeyword  = regexp.MustCompile(`(?:budget|ميزانية|ميزانيه)\s*(?:of|is|:|=)?\s*` + number)

	reMinProtein  = regexp.MustCompile(`(?:minimum|min|at least)\s+` + number + `\s*(?:g|grams?)?\s*(?:of\s+)?protein`)
	reMaxCalories = regexp.MustCompile(`(?:maximum|max|under|below|less than)\s+` + number + `\s*(?:kcal|calories|cal)`)
)

// HeadcountRules resolve the number of people from normalized text.
var HeadcountRules = []Rule{
	{Name: "people_unit", Extract: submatchInt(reHeadcountUnit, 1, 1000)},
	{Name: "for_prefix", Extract: submatchInt(reHeadcountFor, 1, 1000)},
	{Name: "bare_integer", Extract: bareInteger},
}

// BudgetRules resolve a monetary budget from normalized text.
var BudgetRules = []Rule{
	{Name: "currency_amount", Extract: submatchAmount(reCurrencyAmount)},
	{Name: "budget_keyword", Extract: submatchAmount(reBudgetKeyword)},
}

var (
	minProteinRule  = Rule{Name: "min_protein", Extract: submatchAmount(reMinProtein)}
	maxCaloriesRule = Rule{Name: "max_calories", Extract: submatchAmount(reMaxCalories)}
)

// First runs rules in order and reports which one matched.
func First(rules []Rule, text string) (string, float64, bool) {
	for _, r := range rules {
		if v, ok := r.Extract(text); ok {
			return r.Name, v, true
		}
	}
	return "", 0, false
}

func submatchInt(re *regexp.Regexp, lo, hi int) func(string) (float64, bool) {
	return func(text string) (float64, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < lo || n > hi {
			return 0, false
		}
		return float64(n), true
	}
}

func submatchAmount(re *regexp.Regexp) func(string) (float64, bool) {
	return func(text string) (float64, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0, false
		}
		v, err := parseAmount(m[1])
		if err != nil {
			return 0, false
		}
		return v, true
	}
}

func parseAmount(s string) (float64, error) {
	if reGrouped.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

// bareInteger takes the first integer in [2,100] once money and nutrient
// amounts are removed, so "budget 50" is never read as fifty guests.
func bareInteger(text string) (float64, bool) {
	for _, re := range []*regexp.Regexp{reCurrencyAmount, reBudgetKeyword, reMinProtein, reMaxCalories} {
		text = re.ReplaceAllString(text, " ")
	}
	for _, tok := range reBareInteger.FindAllString(text, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if n >= 2 && n <= 100 {
			return float64(n), true
		}
	}
	return 0, false
}
