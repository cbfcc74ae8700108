// Package cart derives checkout figures from a list of line items and
// applies the cart mutations a storefront needs.
//
// Every function is pure: line items are resolved against the catalog on
// each call, inputs are never mutated, and updated carts are new slices.
// A cart slice has a single writer; nothing here synchronises access.
package cart

import (
	"errors"

	"storefront/internal/domain"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// ProductLookup resolves product ids against the current catalog
type ProductLookup interface {
	GetProductByID(id int) (domain.Product, bool)
}

// Line is a resolved line item
type Line struct {
	Product   domain.Product
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Summary carries every figure an order summary shows
type Summary struct {
	Lines        []Line
	ItemCount    int
	Subtotal     decimal.Decimal
	Shipping     decimal.Decimal
	FreeShipping bool
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// Calculator computes cart figures with a pricing policy
type Calculator struct {
	products ProductLookup
	policy   pricing.Policy
}

// NewCalculator creates a Calculator over the given catalog
func NewCalculator(products ProductLookup, policy pricing.Policy) *Calculator {
	return &Calculator{
		products: products,
		policy:   policy,
	}
}

// Policy returns the pricing policy in use
func (c *Calculator) Policy() pricing.Policy {
	return c.policy
}

// LineTotal is the effective unit price times quantity; zero when the
// product has left the catalog.
func (c *Calculator) LineTotal(item domain.CartLineItem) decimal.Decimal {
	product, ok := c.products.GetProductByID(item.ProductID)
	if !ok {
		return decimal.Zero
	}
	return lineTotal(product, item.Quantity)
}

// Subtotal sums the line totals
func (c *Calculator) Subtotal(items []domain.CartLineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(c.LineTotal(item))
	}
	return subtotal
}

// ShippingCost applies the policy's shipping rule to subtotal
func (c *Calculator) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	return c.policy.ShippingCost(subtotal)
}

// Tax applies the policy's tax rate to subtotal
func (c *Calculator) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return c.policy.Tax(subtotal)
}

// OrderTotal is subtotal + shipping + tax
func (c *Calculator) OrderTotal(items []domain.CartLineItem) decimal.Decimal {
	subtotal := c.Subtotal(items)
	return subtotal.Add(c.ShippingCost(subtotal)).Add(c.Tax(subtotal))
}

// Summarize resolves every line and computes the order summary. Lines whose
// product has left the catalog are skipped.
func (c *Calculator) Summarize(items []domain.CartLineItem) Summary {
	summary := Summary{
		Lines:    make([]Line, 0, len(items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range items {
		product, ok := c.products.GetProductByID(item.ProductID)
		if !ok {
			continue
		}

		line := Line{
			Product:   product,
			Quantity:  item.Quantity,
			UnitPrice: pricing.EffectiveUnitPrice(product),
			Total:     lineTotal(product, item.Quantity),
		}
		summary.Lines = append(summary.Lines, line)
		summary.ItemCount += item.Quantity
		summary.Subtotal = summary.Subtotal.Add(line.Total)
	}

	summary.Shipping = c.ShippingCost(summary.Subtotal)
	summary.FreeShipping = summary.Subtotal.IsPositive() && summary.Shipping.IsZero()
	summary.Tax = c.Tax(summary.Subtotal)
	summary.Total = summary.Subtotal.Add(summary.Shipping).Add(summary.Tax)

	return summary
}

func lineTotal(product domain.Product, quantity int) decimal.Decimal {
	return pricing.EffectiveUnitPrice(product).Mul(decimal.NewFromInt(int64(quantity)))
}
