package catalog

import (
	"errors"
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	store, err := LoadSeed()
	require.NoError(t, err)

	assert.Len(t, store.ListProducts(), 8)
	assert.Len(t, store.ListCategories(), 3)

	for _, p := range store.ListProducts() {
		assert.NotEmpty(t, p.Images, "product %d has no images", p.ID)
		assert.True(t, p.DiscountPrice.Valid, "product %d has no discount", p.ID)
	}
}

func TestParse_RejectsMalformedDocuments(t *testing.T) {
	_, err := Parse([]byte("products: [unterminated"))
	assert.Error(t, err)

	_, err = Parse([]byte(`
categories: [{id: 1, name: Electronics, slug: electronics}]
products:
  - {id: 1, name: Cable, price: "abc", category: electronics, images: ["https://example.com/a.jpg"]}
`))
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
}

func TestParse_OptionalDiscount(t *testing.T) {
	store, err := Parse([]byte(`
categories: [{id: 1, name: Electronics, slug: electronics}]
products:
  - {id: 9, name: Cable, price: "9.99", category: electronics, rating: 3.5, stock: 0, images: ["https://example.com/a.jpg"]}
`))
	require.NoError(t, err)

	p, ok := store.GetProductByID(9)
	require.True(t, ok)
	assert.False(t, p.DiscountPrice.Valid)
	assert.False(t, p.InStock())
}

func validProduct() domain.Product {
	return domain.Product{
		ID:            1,
		Name:          "Cable",
		Price:         decimal.RequireFromString("10.00"),
		DiscountPrice: decimal.NewNullDecimal(decimal.RequireFromString("8.00")),
		Category:      "electronics",
		Rating:        4.0,
		Images:        []string{"https://example.com/cable.jpg"},
		Stock:         3,
		Tags:          []string{"cable"},
	}
}

func TestValidate(t *testing.T) {
	categories := []domain.Category{{ID: 1, Name: "Electronics", Slug: "electronics"}}

	tests := []struct {
		name   string
		mutate func(p *domain.Product)
	}{
		{"non-positive id", func(p *domain.Product) { p.ID = 0 }},
		{"missing name", func(p *domain.Product) { p.Name = "" }},
		{"negative price", func(p *domain.Product) { p.Price = decimal.RequireFromString("-1") }},
		{"sub-cent price", func(p *domain.Product) { p.Price = decimal.RequireFromString("10.001") }},
		{"discount equal to price", func(p *domain.Product) { p.DiscountPrice = decimal.NewNullDecimal(p.Price) }},
		{"zero discount", func(p *domain.Product) { p.DiscountPrice = decimal.NewNullDecimal(decimal.Zero) }},
		{"unknown category", func(p *domain.Product) { p.Category = "garden" }},
		{"uppercase category", func(p *domain.Product) { p.Category = "Electronics" }},
		{"rating above five", func(p *domain.Product) { p.Rating = 5.1 }},
		{"negative rating", func(p *domain.Product) { p.Rating = -0.1 }},
		{"no images", func(p *domain.Product) { p.Images = nil }},
		{"bad image url", func(p *domain.Product) { p.Images = []string{"not a url"} }},
		{"negative stock", func(p *domain.Product) { p.Stock = -1 }},
		{"uppercase tag", func(p *domain.Product) { p.Tags = []string{"Cable"} }},
	}

	require.NoError(t, Validate([]domain.Product{validProduct()}, categories))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)
			err := Validate([]domain.Product{p}, categories)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestValidate_Duplicates(t *testing.T) {
	categories := []domain.Category{
		{ID: 1, Name: "Electronics", Slug: "electronics"},
		{ID: 2, Name: "Electronics again", Slug: "electronics"},
	}
	err := Validate(nil, categories)
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	categories = categories[:1]
	err = Validate([]domain.Product{validProduct(), validProduct()}, categories)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestNew_RejectsInvalidCatalog(t *testing.T) {
	p := validProduct()
	p.Category = "garden"

	store, err := New([]domain.Product{p}, nil)
	assert.Nil(t, store)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
