// Package assembler turns ranked products and category candidates into a
// budget-bounded shopping list. The states run in a fixed order: merge,
// pre-filter, cap, line items, fill-up, correction.
package assembler

import (
	"log/slog"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"ShoppingAssistant/internal/budget"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/lexicon"
)

// Tunables of the assembly heuristics.
const (
	PreFilterShare = 0.4
	CheapShare     = 0.10
	FillUpShare    = 0.15
	FillUpTarget   = 0.98
	FillUpSlack    = 0.5
	FillUpMaxUnits = 2
	Epsilon        = 1e-9
)

// Input is everything one assembly needs.
type Input struct {
	Ranked    []domain.ScoredProduct
	Pool      domain.CandidatePool
	Budget    *float64
	Headcount int
	Archetype string
	Currency  string
}

// Report carries diagnostics for logs and metrics.
type Report struct {
	Merged      int  `json:"merged"`
	PreFiltered int  `json:"pre_filtered"`
	Considered  int  `json:"considered"`
	Skipped     int  `json:"skipped"`
	FillUpUnits int  `json:"fill_up_units"`
	FillUpItems int  `json:"fill_up_items"`
	Corrected   bool `json:"corrected"`
	Shrunk      int  `json:"shrunk"`
	Evicted     int  `json:"evicted"`
}

type candidate struct {
	product domain.Product
	ranked  bool
	anchor  bool
}

type line struct {
	item   domain.LineItem
	ranked bool
}

// Assembler is stateless apart from its logger.
type Assembler struct {
	logger *slog.Logger
}

// New constructs an assembler. logger may be nil.
func New(logger *slog.Logger) *Assembler {
	if logger != nil {
		logger = logger.With("component", "assembler")
	}
	return &Assembler{logger: logger}
}

// Assemble builds the list. It never fails: a short or empty list is a
// valid outcome.
func (a *Assembler) Assemble(in Input) (domain.ShoppingList, Report) {
	var rep Report
	headcount := max(in.Headcount, 1)
	total, hasBudget := budgetValue(in.Budget)

	merged := merge(in)
	rep.Merged = len(merged)

	if hasBudget {
		merged = preFilter(merged, total)
		rep.PreFiltered = rep.Merged - len(merged)
	}
	capped := capList(merged, CapFor(headcount))
	rep.Considered = len(capped)

	var lines []line
	if hasBudget {
		lines = buildBudgeted(capped, total, headcount, in.Archetype, &rep)
		lines = fillUp(lines, merged, total, &rep)
		if sum(lines) > total+Epsilon {
			lines = correct(lines, total, &rep)
		}
	} else {
		lines = buildUnbudgeted(capped, headcount, &rep)
	}

	list := finish(lines, in, headcount)
	if list.Empty() {
		a.info("assembled an empty list", "archetype", in.Archetype, "budget", budgetAttr(in.Budget), "merged", rep.Merged)
	}
	if rep.Corrected {
		a.info("budget correction applied", "archetype", in.Archetype, "budget", total, "total", list.TotalCost,
			"items", list.ItemCount, "shrunk", rep.Shrunk, "evicted", rep.Evicted)
	}
	return list, rep
}

// CapFor is the list-size bound for a headcount.
func CapFor(headcount int) int {
	switch {
	case headcount > 10:
		return 20
	case headcount > 5:
		return 15
	default:
		return 12
	}
}

func budgetValue(b *float64) (float64, bool) {
	if b == nil || !(*b > 0) || math.IsInf(*b, 0) {
		return 0, false
	}
	return *b, true
}

// merge puts ranked products first, then category candidates in pool
// order, skipping duplicates and applying the selector's re-tagging.
func merge(in Input) []candidate {
	seen := make(map[string]bool, len(in.Ranked))
	out := make([]candidate, 0, len(in.Ranked))
	for _, sp := range in.Ranked {
		p := sp.Product
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		if c, ok := in.Pool.Corrections[p.ID]; ok {
			p.Category = c
		}
		out = append(out, candidate{product: p, ranked: true})
	}

	for _, category := range in.Pool.Order {
		subtypeSeen := map[string]bool{}
		for i, p := range in.Pool.Products(category) {
			anchor := in.Pool.Essential[category] && i == 0
			if in.Archetype == "bbq" && category == lexicon.Meat {
				sub := lexicon.MeatSubtype(lexicon.Normalize(p.SearchText()))
				if sub != "" && !subtypeSeen[sub] {
					subtypeSeen[sub] = true
					anchor = true
				}
			}
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, candidate{product: p, anchor: anchor})
		}
	}
	return out
}

// preFilter drops products priced above the pre-filter share unless the
// ranker picked them, then orders by price to favor breadth.
func preFilter(items []candidate, total float64) []candidate {
	limit := PreFilterShare * total
	out := make([]candidate, 0, len(items))
	for _, c := range items {
		if c.product.Price > limit && !c.ranked {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].product.Price < out[j].product.Price
	})
	return out
}

// capList keeps at most limit ordinary products; ranked products and
// category anchors do not count against the bound.
func capList(items []candidate, limit int) []candidate {
	out := make([]candidate, 0, min(len(items), limit))
	ordinary := 0
	for _, c := range items {
		if c.ranked || c.anchor {
			out = append(out, c)
			continue
		}
		if ordinary >= limit {
			continue
		}
		ordinary++
		out = append(out, c)
	}
	return out
}

func usablePrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func buildBudgeted(items []candidate, total float64, headcount int, archetype string, rep *Report) []line {
	alloc := budget.Allocate(total, archetype)
	spent := make(map[string]float64)
	running := 0.0
	lines := make([]line, 0, len(items))

	// one unit of every anchor still to come stays reserved in its category
	reserved := make(map[string]float64)
	for _, c := range items {
		if c.anchor && usablePrice(c.product.Price) {
			reserved[c.product.Category] += c.product.Price
		}
	}

	for _, c := range items {
		p := c.product
		if !usablePrice(p.Price) {
			rep.Skipped++
			continue
		}
		if c.anchor {
			reserved[p.Category] -= p.Price
		}
		catRemaining := alloc.For(p.Category) - spent[p.Category]
		overallRemaining := total - running
		q, ok := budget.QuantityForBudget(archetype, p.Category, p.Price, catRemaining, overallRemaining, headcount)
		if !ok {
			rep.Skipped++
			continue
		}
		// clamp down so neither the category nor the overall budget is crossed
		fit := int(math.Floor(math.Min(catRemaining, overallRemaining)/p.Price + Epsilon))
		q = min(q, fit)
		if spare := int(math.Floor((catRemaining-reserved[p.Category])/p.Price + Epsilon)); spare < q {
			q = spare
			if c.anchor {
				q = min(max(q, 1), fit)
			}
		}
		if q <= 0 {
			rep.Skipped++
			continue
		}
		li := lineItem(p, q, c.ranked)
		lines = append(lines, line{item: li, ranked: c.ranked})
		running += li.Total()
		spent[p.Category] += li.Total()
	}
	return lines
}

func buildUnbudgeted(items []candidate, headcount int, rep *Report) []line {
	lines := make([]line, 0, len(items))
	for _, c := range items {
		p := c.product
		if !usablePrice(p.Price) {
			rep.Skipped++
			continue
		}
		q := budget.QuantityForHeadcount(p.Category, p.Price, headcount)
		if q <= 0 {
			rep.Skipped++
			continue
		}
		lines = append(lines, line{item: lineItem(p, q, c.ranked), ranked: c.ranked})
	}
	return lines
}

func lineItem(p domain.Product, quantity int, relevant bool) domain.LineItem {
	currency := p.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return domain.LineItem{
		ProductID: p.ID,
		Name:      p.DisplayName(),
		Category:  p.Category,
		Quantity:  quantity,
		UnitPrice: p.Price,
		Currency:  currency,
		Relevant:  relevant,
	}
}

func sum(lines []line) float64 {
	var s float64
	for _, l := range lines {
		s += l.item.Total()
	}
	return s
}

func finish(lines []line, in Input, headcount int) domain.ShoppingList {
	items := make([]domain.LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, l.item)
	}
	currency := in.Currency
	if currency == "" && len(items) > 0 {
		currency = items[0].Currency
	}
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	var b *float64
	if in.Budget != nil {
		v := *in.Budget
		b = &v
	}
	return domain.ShoppingList{
		Items:     items,
		TotalCost: roundMoney(sum(lines)),
		ItemCount: len(items),
		NumPeople: headcount,
		Budget:    b,
		EventType: in.Archetype,
		Currency:  currency,
	}
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func budgetAttr(b *float64) any {
	if b == nil {
		return "none"
	}
	return *b
}

func (a *Assembler) info(msg string, args ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Info(msg, args...)
}
