package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ShoppingAssistant/internal/config"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/logging"
)

const catalogJSON = `[
  {"id": "m1", "name": "Chicken Thighs", "category": "meat", "price": 6},
  {"id": "m2", "name": "Shish Kebab", "category": "meat", "price": 8},
  {"id": "m3", "name": "Lamb Chops", "category": "meat", "price": 12},
  {"id": "c1", "name": "Charcoal Bag", "category": "charcoal", "price": 3},
  {"id": "v1", "name": "Tomato", "category": "vegetables", "price": 0.8},
  {"id": "b1", "name": "Arabic Bread", "category": "bread", "price": 0.5},
  {"id": "d1", "name": "Pepsi", "category": "drinks", "price": 0.6}
]`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jordan_products.json")
	if err := os.WriteFile(path, []byte(catalogJSON), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return config.Config{
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
		Catalog: config.CatalogConfig{
			Stores:          []config.StoreConfig{{Name: "jordan", Loader: "file", Location: path}},
			RefreshInterval: time.Hour,
		},
		Engine:  config.EngineConfig{Currency: "JOD", BudgetMode: "auto", RankedLimit: 15},
		Metrics: config.MetricsConfig{Prefix: "app_test"},
	}
}

func TestApplicationHandlesQuery(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(context.Background())

	reply, err := a.Pipeline().Handle(context.Background(), "BBQ for 8 people", domain.Hints{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if reply.Result == nil || reply.Result.List.Empty() {
		t.Fatalf("expected a list, got %+v", reply)
	}
	for _, it := range reply.Result.List.Items {
		if it.Currency != "JOD" {
			t.Fatalf("unexpected currency on %+v", it)
		}
	}

	var buf bytes.Buffer
	if err := a.Metrics().Dump(&buf); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), `app_test_requests_total{archetype="bbq",outcome="list"} 1`) {
		t.Fatalf("request not recorded:\n%s", buf.String())
	}
}

func TestApplicationStartRefreshesCatalog(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig(t), logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if a.snapshot.Size() != 7 {
		t.Fatalf("expected the first refresh to load 7 products, got %d", a.snapshot.Size())
	}
}

func TestApplicationOptionalBackends(t *testing.T) {
	t.Parallel()

	a, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(context.Background())

	if _, err := a.ImportCatalog(context.Background(), "x.json", "x", "products"); err == nil {
		t.Fatalf("import without a database must fail")
	}
	if _, err := a.Pipeline().Share(context.Background(), domain.ShoppingList{}); err == nil {
		t.Fatalf("sharing without redis must fail")
	}
}
