package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ShoppingAssistant/internal/config"
	"ShoppingAssistant/internal/domain"
	"ShoppingAssistant/internal/ports"
)

var productNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("shoppingassistant/products"))

// Source implements CatalogSource via registered loaders, one per
// configured store.
type Source struct {
	registry *Registry
	stores   []config.StoreConfig
	logger   *slog.Logger
}

var _ ports.CatalogSource = (*Source)(nil)

// NewSource wires the loader registry with config-defined stores.
func NewSource(reg *Registry, stores []config.StoreConfig, log *slog.Logger) *Source {
	if log != nil {
		log = log.With("component", "catalog")
	}
	return &Source{
		registry: reg,
		stores:   stores,
		logger:   log,
	}
}

// Load reads every store, normalizes the products and drops duplicate ids
// (the first store wins). A failing store is skipped; Load fails only when
// every store failed.
func (s *Source) Load(ctx context.Context) ([]domain.Product, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("loader registry is not configured")
	}

	s.debug("load catalog", "stores", len(s.stores))

	var (
		aggregated []domain.Product
		seen       = map[string]struct{}{}
		failures   []error
	)
	for _, store := range s.stores {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		products, err := s.loadStore(ctx, store)
		if err != nil {
			failures = append(failures, err)
			s.warn("store skipped", "store", store.Name, "error", err)
			continue
		}

		kept := 0
		for _, p := range products {
			p, ok := Prepare(store.Name, p)
			if !ok {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			aggregated = append(aggregated, p)
			kept++
		}
		s.debug("store produced products", "store", store.Name, "read", len(products), "kept", kept)
	}

	if len(s.stores) > 0 && len(failures) == len(s.stores) {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, errors.Join(failures...))
	}

	s.debug("catalog source done", "total_products", len(aggregated))
	return aggregated, nil
}

func (s *Source) loadStore(ctx context.Context, store config.StoreConfig) ([]domain.Product, error) {
	loader, err := s.registry.Resolve(store.Loader)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", store.Name, err)
	}

	products, err := loader.Load(ctx, Request{
		Store:    store.Name,
		Location: store.Location,
		Options:  store.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("load store %s: %w", store.Name, err)
	}
	return products, nil
}

// Prepare fills the store name and a derived id when missing, then
// normalizes. ok is false for rows that cannot take part in planning.
func Prepare(store string, p domain.Product) (domain.Product, bool) {
	if p.StoreName == "" {
		p.StoreName = store
	}
	if strings.TrimSpace(p.ID) == "" {
		p.ID = DeriveID(p)
	}
	p = p.Normalize()
	return p, p.Valid()
}

// DeriveID builds a stable id for catalog rows that carry none, from the
// store, the display name and the category.
func DeriveID(p domain.Product) string {
	key := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(p.StoreName)),
		strings.ToLower(p.DisplayName()),
		strings.ToLower(strings.TrimSpace(p.Category)),
	}, "|")
	return uuid.NewSHA1(productNamespace, []byte(key)).String()
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Source) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
