package cart

import (
	"testing"

	"storefront/internal/domain"
	"storefront/internal/pricing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateQuantity(t *testing.T) {
	calc, _ := newCalculator(t)
	items := []domain.CartLineItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 7, Quantity: 2}, // chair, stock 25
	}

	tests := []struct {
		name      string
		productID int
		quantity  int
		want      []domain.CartLineItem
	}{
		{"increment", 7, 3, []domain.CartLineItem{{1, 1}, {7, 3}}},
		{"clamped to stock", 7, 500, []domain.CartLineItem{{1, 1}, {7, 25}}},
		{"zero is a no-op", 7, 0, items},
		{"negative is a no-op", 1, -4, items},
		{"unknown line is a no-op", 3, 2, items},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.UpdateQuantity(items, tt.productID, tt.quantity))
		})
	}

	// input untouched
	assert.Equal(t, []domain.CartLineItem{{1, 1}, {7, 2}}, items)
}

func TestUpdateQuantity_StaleLines(t *testing.T) {
	calc := NewCalculator(stubCatalog{
		1: {ID: 1, Price: dec("5.00"), Stock: 0},
	}, pricing.DefaultPolicy())

	items := []domain.CartLineItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}

	// sold out since it was added
	assert.Equal(t, []domain.CartLineItem{{2, 1}}, calc.UpdateQuantity(items, 1, 1))

	// gone from the catalog
	assert.Equal(t, items, calc.UpdateQuantity(items, 2, 5))
}

func TestRemoveItem(t *testing.T) {
	calc, store := newCalculator(t)
	items := []domain.CartLineItem{{1, 1}, {3, 2}}

	out := RemoveItem(items, 1)
	assert.Equal(t, []domain.CartLineItem{{3, 2}}, out)
	assert.Equal(t, []domain.CartLineItem{{1, 1}, {3, 2}}, items)

	assert.Equal(t, items, RemoveItem(items, 99))
	assert.Empty(t, RemoveItem([]domain.CartLineItem{{1, 1}}, 1))

	// the catalog does not notice cart changes
	_, ok := store.GetProductByID(1)
	assert.True(t, ok)
	assert.Equal(t, "2399.98", calc.Subtotal(out).String())
}

func TestAddItem(t *testing.T) {
	calc := NewCalculator(stubCatalog{
		1: {ID: 1, Price: dec("5.00"), Stock: 3},
		2: {ID: 2, Price: dec("7.00"), Stock: 0},
	}, pricing.DefaultPolicy())

	items, err := calc.AddItem(nil, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLineItem{{1, 1}}, items)

	items, err = calc.AddItem(items, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLineItem{{1, 3}}, items)

	_, err = calc.AddItem(items, 2, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	same, err := calc.AddItem(items, 42, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, items, same)

	fresh, err := calc.AddItem(nil, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLineItem{{1, 1}}, fresh)
}

func TestSelectQuantity(t *testing.T) {
	p := domain.Product{ID: 1, Stock: 5}

	assert.Equal(t, 3, SelectQuantity(p, 1, 3))
	assert.Equal(t, 5, SelectQuantity(p, 1, 5))
	assert.Equal(t, 1, SelectQuantity(p, 1, 6))
	assert.Equal(t, 2, SelectQuantity(p, 2, 0))

	assert.True(t, Purchasable(p))
	assert.False(t, Purchasable(domain.Product{ID: 2}))
}

// Feature: storefront, Property 7: Quantity updates stay within [1, stock]
func TestProperty_UpdateQuantityStaysInRange(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("updated quantities never exceed stock nor drop below 1", prop.ForAll(
		func(stock int, start int, requested int) bool {
			calc := NewCalculator(stubCatalog{
				1: {ID: 1, Price: dec("1.00"), Stock: stock},
			}, pricing.DefaultPolicy())

			start = min(start, stock)
			items := []domain.CartLineItem{{ProductID: 1, Quantity: start}}
			out := calc.UpdateQuantity(items, 1, requested)

			if requested < 1 {
				return len(out) == 1 && out[0].Quantity == start
			}
			return len(out) == 1 && out[0].Quantity >= 1 && out[0].Quantity <= stock &&
				out[0].Quantity == min(requested, stock)
		},
		gen.IntRange(1, 200),
		gen.IntRange(1, 200),
		gen.IntRange(-50, 500),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 8: Adding never oversells
func TestProperty_AddItemNeverExceedsStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("repeated adds cap the line at stock", prop.ForAll(
		func(stock int, adds []int) bool {
			calc := NewCalculator(stubCatalog{
				1: {ID: 1, Price: dec("1.00"), Stock: stock},
			}, pricing.DefaultPolicy())

			var items []domain.CartLineItem
			for _, q := range adds {
				var err error
				items, err = calc.AddItem(items, 1, q)
				if err != nil {
					return false
				}
			}

			if len(adds) == 0 {
				return len(items) == 0
			}
			return len(items) == 1 && items[0].Quantity >= 1 && items[0].Quantity <= stock
		},
		gen.IntRange(1, 100),
		gen.SliceOf(gen.IntRange(-5, 40)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
