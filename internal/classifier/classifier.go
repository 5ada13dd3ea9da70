// Package classifier turns a free-text request plus optional planner hints
// into an Intent: categories, headcount, archetype, budget and dietary
// filter. Planner hints always take precedence over text.
package classifier

import (
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// MaxBudget is the sanity ceiling for any budget value.
const MaxBudget = 100000

// Classifier is safe for concurrent use.
type Classifier struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// New constructs a classifier. logger may be nil.
func New(logger *slog.Logger) *Classifier {
	if logger != nil {
		logger = logger.With("component", "classifier")
	}
	return &Classifier{validate: validator.New(), logger: logger}
}

// Classify resolves the intent of one utterance.
func (c *Classifier) Classify(query string, hints domain.Hints) domain.Intent {
	text := lexicon.Normalize(strings.TrimSpace(query))
	hints = c.SanitizeHints(hints)

	intent := domain.Intent{
		Categories: domain.NewCategorySet(lexicon.CategoriesIn(text)...),
		Headcount:  1,
		Archetype:  lexicon.ArchetypeOf(text),
	}

	if hints.NumPeople != nil {
		intent.Headcount = *hints.NumPeople
	} else if name, v, ok := First(HeadcountRules, text); ok {
		intent.Headcount = int(v)
		c.debug("headcount extracted", "rule", name, "value", intent.Headcount)
	}

	if hints.EventType != "" {
		intent.Archetype = hints.EventType
	}

	// a valid hint suppresses text extraction entirely
	if hints.Budget != nil {
		b := *hints.Budget
		intent.Budget = &b
		intent.BudgetSource = domain.BudgetHint
	} else if name, v, ok := First(BudgetRules, text); ok && saneBudget(v) {
		intent.Budget = &v
		intent.BudgetSource = domain.BudgetText
		c.debug("budget extracted", "rule", name, "value", v)
	}

	intent.Filter = resolveFilter(text, hints)
	intent.Shopping = !hints.Empty() || IsShoppingRequest(query)
	return intent
}

// SanitizeHints drops every hint field that fails validation so it is
// treated as absent.
func (c *Classifier) SanitizeHints(h domain.Hints) domain.Hints {
	h.EventType = strings.ToLower(strings.TrimSpace(h.EventType))
	if h.EventType != "" && !lexicon.KnownArchetype(h.EventType) {
		c.debug("dropping hint", "field", "event_type", "value", h.EventType)
		h.EventType = ""
	}
	if h.NumPeople != nil && c.validate.Var(*h.NumPeople, "gte=1,lte=1000") != nil {
		c.debug("dropping hint", "field", "num_people", "value", *h.NumPeople)
		h.NumPeople = nil
	}
	if h.Budget != nil && !saneBudget(*h.Budget) {
		c.debug("dropping hint", "field", "budget", "value", *h.Budget)
		h.Budget = nil
	}
	if h.MinProtein != nil && c.validate.Var(*h.MinProtein, "gt=0,lte=100") != nil {
		h.MinProtein = nil
	}
	if h.MaxCalories != nil && c.validate.Var(*h.MaxCalories, "gt=0,lte=10000") != nil {
		h.MaxCalories = nil
	}
	h.Dietary = strings.ToLower(strings.TrimSpace(h.Dietary))
	if h.Dietary != "" && c.validate.Var(h.Dietary, "oneof=all vegetarian vegan halal gluten-free healthy organic no-beef no-chicken") != nil {
		c.debug("dropping hint", "field", "dietary", "value", h.Dietary)
		h.Dietary = ""
	}
	return h
}

func saneBudget(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v < MaxBudget
}

func (c *Classifier) debug(msg string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(msg, args...)
}
