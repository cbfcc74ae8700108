package catalog

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

// Source supplies the raw catalog rows, e.g. the PostgreSQL repositories
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Load reads the whole catalog from src once and builds a validated Store
func Load(ctx context.Context, src Source) (*Store, error) {
	categories, err := src.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	products, err := src.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	return New(products, categories)
}
