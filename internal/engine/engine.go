// Package engine is the pure planning core: classify the request, rank and
// select candidates concurrently, filter, then assemble the list. It does
// no I/O; the catalog arrives as an already loaded slice.
package engine

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ShoppingAssistant/internal/assembler"
	"ShoppingAssistant/internal/budget"
	"ShoppingAssistant/internal/classifier"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/ranker"
	"ShoppingAssistant/internal/selector"
)

// Budget modes for requests that carry no budget.
const (
	BudgetModeAuto      = "auto"
	BudgetModeHeadcount = "headcount"
)

// DefaultRankedLimit is how many ranked products a result exposes for
// display.
const DefaultRankedLimit = 15

var listNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("shoppingassistant/lists"))

// Options tune the engine.
type Options struct {
	BudgetMode  string
	Currency    string
	RankedLimit int
}

// Result is the outcome of one planning cycle.
type Result struct {
	Intent domain.Intent          `json:"intent"`
	List   domain.ShoppingList    `json:"shopping_list"`
	Ranked []domain.ScoredProduct `json:"ranked_products"`
	Pool   domain.CandidatePool   `json:"-"`
	Report assembler.Report       `json:"report"`
}

// Engine is safe for concurrent use; every call works on its own copy of
// the catalog.
type Engine struct {
	classifier *classifier.Classifier
	selector   *selector.Selector
	assembler  *assembler.Assembler
	opts       Options
	logger     *slog.Logger
}

// New wires the core components.
func New(logger *slog.Logger, opts Options) *Engine {
	if opts.BudgetMode == "" {
		opts.BudgetMode = BudgetModeAuto
	}
	if opts.RankedLimit <= 0 {
		opts.RankedLimit = DefaultRankedLimit
	}
	var own *slog.Logger
	if logger != nil {
		own = logger.With("component", "engine")
	}
	return &Engine{
		classifier: classifier.New(logger),
		selector:   selector.New(logger),
		assembler:  assembler.New(logger),
		opts:       opts,
		logger:     own,
	}
}

// Classify resolves the request intent, including the auto budget when
// the engine runs in auto mode.
func (e *Engine) Classify(query string, hints domain.Hints) domain.Intent {
	intent := e.classifier.Classify(query, hints)
	if intent.Budget == nil && e.opts.BudgetMode == BudgetModeAuto {
		b := budget.ComputeBudget(intent.Headcount, intent.Archetype)
		intent.Budget = &b
		intent.BudgetSource = domain.BudgetAuto
	}
	return intent
}

// Plan runs the whole pipeline for one request.
func (e *Engine) Plan(query string, hints domain.Hints, catalog []domain.Product) Result {
	intent := e.Classify(query, hints)
	products := prepare(catalog)

	var (
		ranked []domain.ScoredProduct
		pool   domain.CandidatePool
		g      errgroup.Group
	)
	g.Go(func() error {
		ranked = ranker.Rank(query, intent.Categories, products)
		return nil
	})
	g.Go(func() error {
		pool = e.selector.Select(intent.Archetype, intent.Budget, products)
		return nil
	})
	_ = g.Wait()

	ranked = ranker.ApplyFilters(ranked, intent.Filter)
	if intent.Filter.HasFlags() {
		pool = filterPool(pool, intent.Filter)
	}

	list, rep := e.assembler.Assemble(assembler.Input{
		Ranked:    ranked,
		Pool:      pool,
		Budget:    intent.Budget,
		Headcount: intent.Headcount,
		Archetype: intent.Archetype,
		Currency:  e.opts.Currency,
	})
	list.BudgetAuto = intent.BudgetSource == domain.BudgetAuto
	list.ID = ListID(list)

	e.debug("planned list",
		"archetype", intent.Archetype,
		"headcount", intent.Headcount,
		"budget_source", string(intent.BudgetSource),
		"ranked", len(ranked),
		"items", list.ItemCount,
		"total", list.TotalCost,
	)

	display := ranked
	if len(display) > e.opts.RankedLimit {
		display = display[:e.opts.RankedLimit]
	}
	return Result{Intent: intent, List: list, Ranked: display, Pool: pool, Report: rep}
}

// ListID derives a stable identifier from the list contents, so identical
// requests against the same catalog yield the same id.
func ListID(list domain.ShoppingList) string {
	list.ID = ""
	payload, err := json.Marshal(list)
	if err != nil {
		return uuid.Nil.String()
	}
	return uuid.NewSHA1(listNamespace, payload).String()
}

// prepare copies the catalog, normalizing defaults and dropping entries
// without identity or names.
func prepare(catalog []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(catalog))
	for _, p := range catalog {
		p = p.Normalize()
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

func filterPool(pool domain.CandidatePool, f domain.DietaryFilter) domain.CandidatePool {
	filtered := make(map[string][]domain.Product, len(pool.ByCategory))
	for category, products := range pool.ByCategory {
		kept := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if ranker.MatchesFlags(p, f) {
				kept = append(kept, p)
			}
		}
		filtered[category] = kept
	}
	pool.ByCategory = filtered
	return pool
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Debug(msg, args...)
}
