package cart

import (
	"fmt"

	"storefront/internal/domain"
)

// UpdateQuantity sets the quantity of productID's line to min(newQuantity, stock).
// Requests below 1 and unknown lines leave the cart unchanged. A line whose
// product is gone from the catalog is kept as is; one whose stock dropped to
// zero is removed.
func (c *Calculator) UpdateQuantity(items []domain.CartLineItem, productID, newQuantity int) []domain.CartLineItem {
	if newQuantity < 1 || indexOf(items, productID) < 0 {
		return items
	}

	product, ok := c.products.GetProductByID(productID)
	if !ok {
		return items
	}
	if product.Stock < 1 {
		return RemoveItem(items, productID)
	}

	out := make([]domain.CartLineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = min(newQuantity, product.Stock)
		}
	}
	return out
}

// RemoveItem returns items without productID's line
func RemoveItem(items []domain.CartLineItem, productID int) []domain.CartLineItem {
	if indexOf(items, productID) < 0 {
		return items
	}

	out := make([]domain.CartLineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return out
}

// AddItem puts quantity units of productID in the cart, merging with an
// existing line. Quantities below 1 count as 1 and the result is capped at
// the product's stock.
func (c *Calculator) AddItem(items []domain.CartLineItem, productID, quantity int) ([]domain.CartLineItem, error) {
	product, ok := c.products.GetProductByID(productID)
	if !ok {
		return items, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	if !product.InStock() {
		return items, fmt.Errorf("%w: %d", ErrOutOfStock, productID)
	}

	quantity = max(quantity, 1)

	i := indexOf(items, productID)
	if i < 0 {
		out := make([]domain.CartLineItem, len(items), len(items)+1)
		copy(out, items)
		return append(out, domain.CartLineItem{
			ProductID: productID,
			Quantity:  min(quantity, product.Stock),
		}), nil
	}

	out := make([]domain.CartLineItem, len(items))
	copy(out, items)
	out[i].Quantity = min(out[i].Quantity+quantity, product.Stock)
	return out, nil
}

// Purchasable reports whether the product can be added to a cart
func Purchasable(product domain.Product) bool {
	return product.InStock()
}

// SelectQuantity is the product page quantity selector: requested is taken
// when it lies in [1, stock], otherwise current is kept.
func SelectQuantity(product domain.Product, current, requested int) int {
	if requested < 1 || requested > product.Stock {
		return current
	}
	return requested
}

func indexOf(items []domain.CartLineItem, productID int) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
