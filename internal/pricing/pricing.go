// Package pricing holds the storefront's price rules: effective unit price,
// discount percentage, shipping and tax policy, and currency formatting.
//
// Arithmetic is exact decimal arithmetic. Rounding only happens when a figure
// is turned into an integer percent or a display string, and it is always
// half-up.
package pricing

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	// FreeShippingThresholdCents is the subtotal from which shipping is free (50.00)
	FreeShippingThresholdCents = 5000

	// FlatShippingFeeCents is charged below the free shipping threshold (5.99)
	FlatShippingFeeCents = 599

	// TaxRatePercent is applied to the subtotal (8%)
	TaxRatePercent = 8
)

var (
	FreeShippingThreshold = decimal.New(FreeShippingThresholdCents, -2)
	FlatShippingFee       = decimal.New(FlatShippingFeeCents, -2)
	TaxRate               = decimal.New(TaxRatePercent, -2)

	hundred = decimal.NewFromInt(100)
)

// Policy groups the checkout rules that depend on the subtotal
type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPolicy returns the policy built from the package constants
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: FreeShippingThreshold,
		FlatShippingFee:       FlatShippingFee,
		TaxRate:               TaxRate,
	}
}

// ShippingCost is zero for an empty cart and at or above the threshold,
// otherwise the flat fee.
func (p Policy) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

// Tax returns subtotal * TaxRate without rounding
func (p Policy) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate)
}

// HasDiscount reports whether the product carries a usable discount price,
// that is one strictly between zero and the base price.
func HasDiscount(product domain.Product) bool {
	if !product.DiscountPrice.Valid {
		return false
	}
	d := product.DiscountPrice.Decimal
	return d.IsPositive() && d.LessThan(product.Price)
}

// EffectiveUnitPrice returns the discount price when valid, else the base price
func EffectiveUnitPrice(product domain.Product) decimal.Decimal {
	if HasDiscount(product) {
		return product.DiscountPrice.Decimal
	}
	return product.Price
}

// DiscountPercent returns round(100 * (price - discount) / price) in [0,100]
func DiscountPercent(product domain.Product) int {
	if !HasDiscount(product) || product.Price.IsZero() {
		return 0
	}

	saved := product.Price.Sub(product.DiscountPrice.Decimal)
	percent := saved.Mul(hundred).Div(product.Price).Round(0).IntPart()

	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return int(percent)
}

// ShippingCost applies DefaultPolicy
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	return DefaultPolicy().ShippingCost(subtotal)
}

// Tax applies DefaultPolicy
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return DefaultPolicy().Tax(subtotal)
}
