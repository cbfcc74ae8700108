package pricing

import (
	"testing"

	"storefront/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func product(price, discount string) domain.Product {
	p := domain.Product{ID: 1, Price: decimal.RequireFromString(price), Stock: 10}
	if discount != "" {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	return p
}

func cents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

func TestDiscountPercent_Headphones(t *testing.T) {
	assert.Equal(t, 17, DiscountPercent(product("299.99", "249.99")))
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		want     int
	}{
		{"no discount", "79.99", "", 0},
		{"wallet", "79.99", "69.99", 13},
		{"speaker", "129.99", "99.99", 23},
		{"half rounds up", "200.00", "199.00", 1},
		{"one and a half rounds up", "1000.00", "985.00", 2},
		{"discount equal to price ignored", "10.00", "10.00", 0},
		{"discount above price ignored", "10.00", "12.00", 0},
		{"zero discount ignored", "10.00", "0", 0},
		{"zero price", "0", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountPercent(product(tt.price, tt.discount)))
		})
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	assert.True(t, EffectiveUnitPrice(product("299.99", "249.99")).Equal(decimal.RequireFromString("249.99")))
	assert.True(t, EffectiveUnitPrice(product("299.99", "")).Equal(decimal.RequireFromString("299.99")))
	assert.True(t, EffectiveUnitPrice(product("10.00", "15.00")).Equal(decimal.RequireFromString("10.00")))
}

func TestShippingCost(t *testing.T) {
	assert.True(t, ShippingCost(decimal.Zero).IsZero())
	assert.True(t, ShippingCost(cents(4999)).Equal(FlatShippingFee))
	assert.True(t, ShippingCost(cents(5000)).IsZero())
	assert.True(t, ShippingCost(cents(264997)).IsZero())
}

func TestTax(t *testing.T) {
	assert.Equal(t, "211.9976", Tax(decimal.RequireFromString("2649.97")).String())
	assert.True(t, Tax(decimal.Zero).IsZero())
}

func TestPolicy_Overrides(t *testing.T) {
	policy := Policy{
		FreeShippingThreshold: cents(10000),
		FlatShippingFee:       cents(1000),
		TaxRate:               decimal.RequireFromString("0.2"),
	}

	assert.True(t, policy.ShippingCost(cents(9999)).Equal(cents(1000)))
	assert.True(t, policy.ShippingCost(cents(10000)).IsZero())
	assert.Equal(t, "20", policy.Tax(cents(10000)).String())
}

// Feature: storefront, Property 1: Discount percent stays in range
func TestProperty_DiscountPercentInRange(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("discounted products report a percent in [1,100] matching the rounded ratio", prop.ForAll(
		func(priceCents int64, discountCents int64) bool {
			if discountCents >= priceCents {
				discountCents = priceCents - 1
			}
			if discountCents < 1 {
				return true
			}

			p := domain.Product{
				Price:         cents(priceCents),
				DiscountPrice: decimal.NewNullDecimal(cents(discountCents)),
			}

			got := DiscountPercent(p)
			if got < 1 || got > 100 {
				// A discount of less than half a percent legitimately rounds to 0
				ratio := cents(priceCents - discountCents).Mul(hundred).Div(cents(priceCents))
				return got == 0 && ratio.LessThan(decimal.RequireFromString("0.5"))
			}

			want := cents(priceCents - discountCents).Mul(hundred).Div(cents(priceCents)).Round(0).IntPart()
			return int64(got) == want
		},
		gen.Int64Range(2, 1_000_000),
		gen.Int64Range(1, 1_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 2: Shipping depends only on the threshold
func TestProperty_ShippingThreshold(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("subtotals at or above 50.00 ship free, smaller positive subtotals pay the flat fee", prop.ForAll(
		func(subtotalCents int64) bool {
			shipping := ShippingCost(cents(subtotalCents))
			if subtotalCents >= FreeShippingThresholdCents {
				return shipping.IsZero()
			}
			return shipping.Equal(FlatShippingFee)
		},
		gen.Int64Range(1, 10_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 3: Tax is exact
func TestProperty_TaxIsExact(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("tax equals subtotal * 0.08 with no rounding", prop.ForAll(
		func(subtotalCents int64) bool {
			// 8% of the subtotal in ten-thousandths
			want := decimal.New(subtotalCents*TaxRatePercent, -4)
			return Tax(cents(subtotalCents)).Equal(want)
		},
		gen.Int64Range(0, 100_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
