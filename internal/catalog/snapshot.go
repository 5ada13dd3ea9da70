package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/ports"
)

// Snapshot serves the last loaded catalog and swaps it atomically on
// refresh. The returned slice is shared and must not be modified.
type Snapshot struct {
	source ports.CatalogSource
	cache  ports.SnapshotCache
	logger *slog.Logger

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
	loadedAt time.Time
	now      func() time.Time
}

var _ ports.CatalogReader = (*Snapshot)(nil)

// NewSnapshot wires a source with an optional snapshot cache.
func NewSnapshot(source ports.CatalogSource, cache ports.SnapshotCache, log *slog.Logger) *Snapshot {
	if log != nil {
		log = log.With("component", "catalog_snapshot")
	}
	return &Snapshot{source: source, cache: cache, logger: log, now: time.Now}
}

// Products returns the current catalog, loading it on first use.
func (s *Snapshot) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	if s.loaded {
		products := s.products
		s.mu.RUnlock()
		return products, nil
	}
	s.mu.RUnlock()

	err := s.Refresh(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, err
	}
	return s.products, nil
}

// Refresh reloads the catalog from the source. On failure the current
// catalog stays in place; when there is none yet the cached snapshot is
// used. The source error is returned either way.
func (s *Snapshot) Refresh(ctx context.Context) error {
	products, err := s.source.Load(ctx)
	if err != nil {
		s.fallback(ctx)
		return fmt.Errorf("refresh catalog: %w", err)
	}

	s.store(products)
	s.info("catalog refreshed", "products", len(products))

	if s.cache != nil {
		if err := s.cache.SaveSnapshot(ctx, products); err != nil {
			s.warn("save catalog snapshot", "error", err)
		}
	}
	return nil
}

// LoadedAt reports when the current catalog was installed; zero if never.
func (s *Snapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Size is the number of products currently served.
func (s *Snapshot) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *Snapshot) fallback(ctx context.Context) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded || s.cache == nil {
		return
	}

	products, err := s.cache.LoadSnapshot(ctx)
	if err != nil {
		s.warn("load catalog snapshot", "error", err)
		return
	}
	s.store(products)
	s.info("catalog restored from snapshot", "products", len(products))
}

func (s *Snapshot) store(products []domain.Product) {
	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.loadedAt = s.now()
	s.mu.Unlock()
}

func (s *Snapshot) info(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Snapshot) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
