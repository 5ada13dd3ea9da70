package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"

	"ShoppingAssistant/internal/domain"
)

func TestBuildSelect(t *testing.T) {
	t.Parallel()

	query, args, err := buildSelect("", map[string]string{
		"store_name": "cozmo",
		"categories": "Meat, vegetables,,",
		"max_price":  "25",
	})
	if err != nil {
		t.Fatalf("buildSelect: %v", err)
	}

	if !strings.HasPrefix(query, "SELECT id, name, name_en, name_ar, category, price") {
		t.Fatalf("unexpected columns: %s", query)
	}
	want := "FROM products WHERE in_stock = $1 AND store_name = $2 AND category = ANY($3) AND price <= $4 ORDER BY id"
	if !strings.HasSuffix(query, want) {
		t.Fatalf("unexpected query:\n%s\nwant suffix:\n%s", query, want)
	}
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	cats, ok := args[2].(pq.StringArray)
	if !ok || len(cats) != 2 || cats[0] != "meat" || cats[1] != "vegetables" {
		t.Fatalf("unexpected category arg %#v", args[2])
	}
	if args[3] != 25.0 {
		t.Fatalf("unexpected price arg %#v", args[3])
	}
}

func TestBuildSelectRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, _, err := buildSelect("products; DROP TABLE x", nil); err == nil {
		t.Fatalf("expected table name to be rejected")
	}
	if _, _, err := buildSelect("catalog.products", map[string]string{"max_price": "cheap"}); err == nil {
		t.Fatalf("expected max_price error")
	}
	query, args, err := buildSelect("catalog.products", nil)
	if err != nil {
		t.Fatalf("schema-qualified table should pass: %v", err)
	}
	if !strings.Contains(query, "FROM catalog.products WHERE in_stock = $1 ORDER BY id") || len(args) != 1 {
		t.Fatalf("unexpected query %s %v", query, args)
	}
}

func TestBuildUpsert(t *testing.T) {
	t.Parallel()

	protein := 31.0
	products := []domain.Product{
		{ID: "m1", Name: "Chicken Breast", Category: "meat", Price: 4.5, Currency: "JOD", Nutrition: domain.Nutrition{Protein: &protein}},
		{ID: "v1", Name: "Tomatoes", NameAR: "طماطم", Category: "vegetables", Price: 0.9, Currency: "JOD"},
	}

	query, args, err := buildUpsert("products", products)
	if err != nil {
		t.Fatalf("buildUpsert: %v", err)
	}

	if !strings.HasPrefix(query, "INSERT INTO products") {
		t.Fatalf("unexpected query %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name") || !strings.HasSuffix(query, "updated_at = NOW()") {
		t.Fatalf("missing conflict clause: %s", query)
	}
	if strings.Contains(query, "id = EXCLUDED.id") {
		t.Fatalf("primary key must not be updated: %s", query)
	}
	if len(args) != 2*len(columns) {
		t.Fatalf("expected %d args, got %d", 2*len(columns), len(args))
	}
	if !strings.Contains(query, fmt.Sprintf("$%d", len(args))) {
		t.Fatalf("placeholders not numbered: %s", query)
	}
	if got := args[3].(sql.NullString); got.Valid {
		t.Fatalf("empty arabic name must be NULL, got %#v", got)
	}
	if got := args[len(columns)+3].(sql.NullString); got.String != "طماطم" {
		t.Fatalf("arabic name arg = %#v", got)
	}
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return fmt.Errorf("expected %d destinations, got %d", len(r), len(dest))
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r[i].(string)
		case *float64:
			*d = r[i].(float64)
		case *bool:
			*d = r[i].(bool)
		case sql.Scanner:
			if err := d.Scan(r[i]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanProduct(t *testing.T) {
	t.Parallel()

	row := fakeRow{
		"m1", "Chicken Breast", "Chicken Breast", nil, "meat", 4.5, "JOD",
		nil, "cozmo", "https://shop/m1", nil,
		165.0, 31.0, nil, 3.6, nil,
		true, false, false, true, false, true,
	}

	p, err := scanProduct(row)
	if err != nil {
		t.Fatalf("scanProduct: %v", err)
	}
	if p.ID != "m1" || p.NameAR != "" || p.Category != "meat" || p.StoreName != "cozmo" {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Protein == nil || *p.Protein != 31 || p.Carbs != nil {
		t.Fatalf("unexpected nutrition %+v", p.Nutrition)
	}
	if !p.GlutenFree || !p.Halal || !p.Healthy || p.Vegan {
		t.Fatalf("unexpected dietary flags %+v", p.Dietary)
	}
}
