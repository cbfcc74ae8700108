// Package catalog provides the read-only product and category store.
//
// A Store is built once from a catalog source and never written afterwards,
// so it can be shared freely. Absence is reported with a boolean, never an
// error: a deep link to a product that no longer exists is routine.
package catalog

import (
	"math/rand/v2"
	"strings"

	"storefront/internal/domain"
)

// Store is an immutable, ordered collection of products and categories
type Store struct {
	products   []domain.Product
	categories []domain.Category
	byID       map[int]int
}

// Shuffler permutes n elements through swap, with the signature of rand.Shuffle
type Shuffler func(n int, swap func(i, j int))

// SeededShuffler returns a deterministic Shuffler for the given seed
func SeededShuffler(seed uint64) Shuffler {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Shuffle
}

// New validates products and categories and builds a Store from them.
// The slices are copied; later changes by the caller are not observed.
func New(products []domain.Product, categories []domain.Category) (*Store, error) {
	if err := Validate(products, categories); err != nil {
		return nil, err
	}

	s := &Store{
		products:   make([]domain.Product, len(products)),
		categories: make([]domain.Category, len(categories)),
		byID:       make(map[int]int, len(products)),
	}

	for i, p := range products {
		s.products[i] = clone(p)
		s.byID[p.ID] = i
	}
	copy(s.categories, categories)

	return s, nil
}

// GetProductByID returns the product with the given id
func (s *Store) GetProductByID(id int) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return clone(s.products[i]), true
}

// GetProductsByCategory returns the products of a category, matched case-insensitively
func (s *Store) GetProductsByCategory(slug string) []domain.Product {
	return s.filter(func(p domain.Product) bool {
		return strings.EqualFold(p.Category, slug)
	})
}

// ListCategories returns all categories in stored order
func (s *Store) ListCategories() []domain.Category {
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// GetCategoryBySlug returns the category with the given slug, matched case-insensitively
func (s *Store) GetCategoryBySlug(slug string) (domain.Category, bool) {
	for _, c := range s.categories {
		if strings.EqualFold(c.Slug, slug) {
			return c, true
		}
	}
	return domain.Category{}, false
}

// ListProducts returns all products in stored order
func (s *Store) ListProducts() []domain.Product {
	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		out[i] = clone(p)
	}
	return out
}

// Search matches query against product names and categories, ignoring case.
// A blank query returns every product.
func (s *Store) Search(query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.ListProducts()
	}

	return s.filter(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	})
}

// ProductsByTag returns products carrying tag
func (s *Store) ProductsByTag(tag string) []domain.Product {
	return s.filter(func(p domain.Product) bool {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
		return false
	})
}

// Featured returns the first limit products
func (s *Store) Featured(limit int) []domain.Product {
	return truncate(s.ListProducts(), limit)
}

// Trending returns up to limit products in the order produced by shuffle.
// The store itself is left untouched.
func (s *Store) Trending(limit int, shuffle Shuffler) []domain.Product {
	out := s.ListProducts()
	if shuffle != nil {
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return truncate(out, limit)
}

// Similar returns up to limit other products from the same category
func (s *Store) Similar(product domain.Product, limit int) []domain.Product {
	out := s.filter(func(p domain.Product) bool {
		return p.ID != product.ID && p.Category == product.Category
	})
	return truncate(out, limit)
}

func (s *Store) filter(keep func(domain.Product) bool) []domain.Product {
	out := []domain.Product{}
	for _, p := range s.products {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	return out
}

// clone detaches a product's slices from the store's backing arrays
func clone(p domain.Product) domain.Product {
	p.Images = append([]string(nil), p.Images...)
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

func truncate(products []domain.Product, limit int) []domain.Product {
	if limit < 0 {
		limit = 0
	}
	if len(products) > limit {
		return products[:limit]
	}
	return products
}
