package repository

import (
	"context"

	"storefront/internal/domain"
)

// CatalogSource reads the full catalog through the product and category
// repositories so it can be handed to catalog.Load.
type CatalogSource struct {
	products   ProductRepository
	categories CategoryRepository
}

// NewCatalogSource creates a CatalogSource over the given repositories
func NewCatalogSource(products ProductRepository, categories CategoryRepository) *CatalogSource {
	return &CatalogSource{products: products, categories: categories}
}

// ListProducts returns every product row
func (s *CatalogSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// ListCategories returns every category row
func (s *CatalogSource) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}
