package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/ports"
)

// DefaultEnrichWorkers bounds concurrent analyzer calls.
const DefaultEnrichWorkers = 4

// Enrich fills nutrition for products that report none, in place. A failed
// lookup leaves the product untouched. It returns how many were enriched.
func Enrich(ctx context.Context, analyzer ports.NutritionAnalyzer, products []domain.Product, workers int, logger *slog.Logger) int {
	if analyzer == nil {
		return 0
	}
	if workers <= 0 {
		workers = DefaultEnrichWorkers
	}

	var (
		enriched atomic.Int64
		g        errgroup.Group
	)
	g.SetLimit(workers)
	for i := range products {
		if !products[i].Nutrition.Empty() {
			continue
		}
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			n, err := analyzer.Analyze(ctx, products[i])
			if err != nil {
				if logger != nil {
					logger.Warn("nutrition lookup failed", "product", products[i].ID, "error", err)
				}
				return nil
			}
			if n.Empty() {
				return nil
			}
			products[i].Nutrition = n
			enriched.Add(1)
			return nil
		})
	}
	_ = g.Wait()
	return int(enriched.Load())
}
