package ports

import (
	"context"
	"time"

	"ShoppingAssistant/internal/domain"
)

// CatalogReader returns the current product catalog.
type CatalogReader interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// CatalogSource loads a fresh catalog from the configured stores.
type CatalogSource interface {
	Load(ctx context.Context) ([]domain.Product, error)
}

// SnapshotCache keeps the last good catalog so a restart survives store
// outages.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, products []domain.Product) error
	LoadSnapshot(ctx context.Context) ([]domain.Product, error)
}

// ListStore persists shopping lists for sharing.
type ListStore interface {
	SaveList(ctx context.Context, list domain.ShoppingList, ttl time.Duration) error
	LoadList(ctx context.Context, id string) (domain.ShoppingList, error)
}

// Phraser rewrites a composed reply into friendlier prose (e.g., ChatGPT).
type Phraser interface {
	Polish(ctx context.Context, query, draft string) (string, error)
}

// Metrics records request outcomes.
type Metrics interface {
	ObserveRequest(archetype, outcome string)
	ObserveStage(stage string, elapsed time.Duration)
	ObserveList(list domain.ShoppingList, corrected bool, fillUpUnits int)
}

// Scheduler controls when background jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// Publisher posts shared lists to an outside channel (e.g., Telegram).
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// NutritionAnalyzer estimates per-100g nutrition for catalog rows that
// carry none.
type NutritionAnalyzer interface {
	Analyze(ctx context.Context, product domain.Product) (domain.Nutrition, error)
}
