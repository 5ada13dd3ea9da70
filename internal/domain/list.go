package domain

// ScoredProduct pairs a product with its relevance score for one query.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   int     `json:"score"`
}

// CandidatePool is the Category Selector output: products per required
// category, in the order the assembler should consider them.
type CandidatePool struct {
	Order      []string             `json:"order"`
	ByCategory map[string][]Product `json:"by_category"`
	Essential  map[string]bool      `json:"essential"`
	// Corrections maps product id to the category assigned by keyword match.
	Corrections map[string]string `json:"corrections,omitempty"`
}

// Products returns the candidates of one category.
func (c CandidatePool) Products(category string) []Product {
	if c.ByCategory == nil {
		return nil
	}
	return c.ByCategory[category]
}

// LineItem is one row of a shopping list.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"product_name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Currency  string  `json:"currency"`
	Relevant  bool    `json:"relevant,omitempty"`
}

// Total is quantity times unit price.
func (l LineItem) Total() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// ShoppingList is the immutable result of one query-handling cycle.
type ShoppingList struct {
	ID         string     `json:"id,omitempty"`
	Items      []LineItem `json:"items"`
	TotalCost  float64    `json:"total_cost"`
	ItemCount  int        `json:"item_count"`
	NumPeople  int        `json:"num_people"`
	Budget     *float64   `json:"budget"`
	BudgetAuto bool       `json:"budget_auto,omitempty"`
	EventType  string     `json:"event_type"`
	Currency   string     `json:"currency"`
}

// Empty reports whether no line item could be built.
func (l ShoppingList) Empty() bool {
	return len(l.Items) == 0
}

// Remaining is the unspent budget, zero when no budget applies.
func (l ShoppingList) Remaining() float64 {
	if l.Budget == nil {
		return 0
	}
	return *l.Budget - l.TotalCost
}
