package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID            int                 `json:"id" db:"id"`
	Name          string              `json:"name" db:"name"`
	Description   string              `json:"description" db:"description"`
	Price         decimal.Decimal     `json:"price" db:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price" db:"discount_price"`
	Category      string              `json:"category" db:"category"`
	Rating        float64             `json:"rating" db:"rating"`
	Images        []string            `json:"images" db:"images"`
	Stock         int                 `json:"stock" db:"stock"`
	Tags          []string            `json:"tags" db:"tags"`
}

// InStock reports whether at least one unit can be bought
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Category represents a product category
type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// CartLineItem is one product+quantity pairing in a cart. The product is
// referenced by id and resolved against the catalog on every calculation.
type CartLineItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}
