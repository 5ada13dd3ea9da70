package composer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ShoppingAssistant/internal/domain"
)

const rule = "=================================================="

// ExportText renders the list as plain text grouped by category.
func ExportText(list domain.ShoppingList) string {
	var b strings.Builder
	event := list.EventType
	if event == "" {
		event = "event"
	}
	fmt.Fprintf(&b, "%s\nSHOPPING LIST - %s\n%s\n", rule, strings.ToUpper(event), rule)
	fmt.Fprintf(&b, "For: %d people\n", list.NumPeople)
	if list.Budget != nil {
		fmt.Fprintf(&b, "Budget: %s %s\n", Money(*list.Budget), list.Currency)
	}
	for _, group := range groupByCategory(list.Items) {
		fmt.Fprintf(&b, "\n%s:\n%s\n", strings.ToUpper(group.category), rule[:30])
		for _, it := range group.items {
			fmt.Fprintf(&b, "  - %s (Qty: %d) - %s %s\n", it.Name, it.Quantity, Money(it.Total()), it.Currency)
		}
	}
	fmt.Fprintf(&b, "\n%s\nTOTAL: %s %s\n%s\n", rule, Money(list.TotalCost), list.Currency, rule)
	return b.String()
}

// ExportCSV writes one row per line item under a header row.
func ExportCSV(w io.Writer, list domain.ShoppingList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Product", "Category", "Quantity", "Price", "Total"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range list.Items {
		row := []string{it.Name, it.Category, strconv.Itoa(it.Quantity), Money(it.UnitPrice), Money(it.Total())}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", it.ProductID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

type exportDocument struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	CreatedAt string            `json:"created_at"`
	EventType string            `json:"event_type"`
	NumPeople int               `json:"num_people"`
	Budget    *float64          `json:"budget"`
	TotalCost float64           `json:"total_cost"`
	Currency  string            `json:"currency"`
	Items     []domain.LineItem `json:"items"`
}

// ExportJSON renders an indented JSON document of the list.
func ExportJSON(list domain.ShoppingList, createdAt time.Time) ([]byte, error) {
	doc := exportDocument{
		ID:        list.ID,
		Title:     fmt.Sprintf("Shopping List for %d people", list.NumPeople),
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
		EventType: list.EventType,
		NumPeople: list.NumPeople,
		Budget:    list.Budget,
		TotalCost: list.TotalCost,
		Currency:  list.Currency,
		Items:     list.Items,
	}
	if doc.Items == nil {
		doc.Items = []domain.LineItem{}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal list export: %w", err)
	}
	return payload, nil
}

// ShareText is the short summary used when a list is shared.
func ShareText(list domain.ShoppingList) string {
	event := list.EventType
	if event == "" {
		event = "event"
	}
	return fmt.Sprintf("Shopping list for %s!\n%d people\n%d items\n%s %s",
		event, list.NumPeople, list.ItemCount, Money(list.TotalCost), list.Currency)
}
