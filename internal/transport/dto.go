package transport

import (
	"strings"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/service"

	"github.com/shopspring/decimal"
)

// Amounts are exact decimal strings; the *_formatted fields are display strings.

// CategoryResponse represents a category
type CategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ProductResponse represents a product with its effective price
type ProductResponse struct {
	ID                      int      `json:"id"`
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	Price                   string   `json:"price"`
	PriceFormatted          string   `json:"price_formatted"`
	DiscountPrice           *string  `json:"discount_price"`
	DiscountPriceFormatted  *string  `json:"discount_price_formatted"`
	EffectivePrice          string   `json:"effective_price"`
	EffectivePriceFormatted string   `json:"effective_price_formatted"`
	DiscountPercent         int      `json:"discount_percent"`
	Category                string   `json:"category"`
	Rating                  float64  `json:"rating"`
	Images                  []string `json:"images"`
	Stock                   int      `json:"stock"`
	InStock                 bool     `json:"in_stock"`
	Tags                    []string `json:"tags"`
}

// CategoryPageResponse represents a category page
type CategoryPageResponse struct {
	Category CategoryResponse  `json:"category"`
	Known    bool              `json:"known"`
	Products []ProductResponse `json:"products"`
}

// ProductDetailResponse represents the product page
type ProductDetailResponse struct {
	Product     ProductResponse   `json:"product"`
	HasDiscount bool              `json:"has_discount"`
	Purchasable bool              `json:"purchasable"`
	Similar     []ProductResponse `json:"similar"`
}

// ImageResponse represents one gallery image with carousel navigation
type ImageResponse struct {
	URL   string `json:"url"`
	Index int    `json:"index"`
	Count int    `json:"count"`
	Next  int    `json:"next"`
	Prev  int    `json:"prev"`
}

// LineResponse represents a resolved cart line
type LineResponse struct {
	ProductID          int    `json:"product_id"`
	Name               string `json:"name"`
	Image              string `json:"image"`
	Quantity           int    `json:"quantity"`
	UnitPrice          string `json:"unit_price"`
	UnitPriceFormatted string `json:"unit_price_formatted"`
	Total              string `json:"total"`
	TotalFormatted     string `json:"total_formatted"`
}

// SummaryResponse represents cart totals
type SummaryResponse struct {
	Lines             []LineResponse `json:"lines"`
	ItemCount         int            `json:"item_count"`
	Subtotal          string         `json:"subtotal"`
	SubtotalFormatted string         `json:"subtotal_formatted"`
	Shipping          string         `json:"shipping"`
	ShippingFormatted string         `json:"shipping_formatted"`
	FreeShipping      bool           `json:"free_shipping"`
	Tax               string         `json:"tax"`
	TaxFormatted      string         `json:"tax_formatted"`
	Total             string         `json:"total"`
	TotalFormatted    string         `json:"total_formatted"`
}

// CartResponse represents a session cart
type CartResponse struct {
	ID      string                `json:"id"`
	Items   []domain.CartLineItem `json:"items"`
	Summary SummaryResponse       `json:"summary"`
}

func newCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func newCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = newCategoryResponse(c)
	}
	return out
}

func newProductResponse(p domain.Product) ProductResponse {
	effective := pricing.EffectiveUnitPrice(p)

	resp := ProductResponse{
		ID:                      p.ID,
		Name:                    p.Name,
		Description:             p.Description,
		Price:                   p.Price.StringFixed(2),
		PriceFormatted:          pricing.FormatPrice(p.Price),
		EffectivePrice:          effective.StringFixed(2),
		EffectivePriceFormatted: pricing.FormatPrice(effective),
		DiscountPercent:         pricing.DiscountPercent(p),
		Category:                p.Category,
		Rating:                  p.Rating,
		Images:                  nonNil(p.Images),
		Stock:                   p.Stock,
		InStock:                 p.InStock(),
		Tags:                    nonNil(p.Tags),
	}

	if pricing.HasDiscount(p) {
		discount := p.DiscountPrice.Decimal.StringFixed(2)
		formatted := pricing.FormatPrice(p.DiscountPrice.Decimal)
		resp.DiscountPrice = &discount
		resp.DiscountPriceFormatted = &formatted
	}

	return resp
}

func newProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = newProductResponse(p)
	}
	return out
}

func newCategoryPageResponse(page service.CategoryPage) CategoryPageResponse {
	return CategoryPageResponse{
		Category: newCategoryResponse(page.Category),
		Known:    page.Known,
		Products: newProductResponses(page.Products),
	}
}

func newProductDetailResponse(detail *service.ProductDetail) ProductDetailResponse {
	return ProductDetailResponse{
		Product:     newProductResponse(detail.Product),
		HasDiscount: detail.HasDiscount,
		Purchasable: detail.Purchasable,
		Similar:     newProductResponses(detail.Similar),
	}
}

func newImageResponse(view *service.ImageView) ImageResponse {
	return ImageResponse{
		URL:   view.URL,
		Index: view.Index,
		Count: view.Count,
		Next:  view.Next,
		Prev:  view.Prev,
	}
}

func newSummaryResponse(s cart.Summary) SummaryResponse {
	lines := make([]LineResponse, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = LineResponse{
			ProductID:          line.Product.ID,
			Name:               line.Product.Name,
			Image:              firstImage(line.Product),
			Quantity:           line.Quantity,
			UnitPrice:          amount(line.UnitPrice),
			UnitPriceFormatted: pricing.FormatPrice(line.UnitPrice),
			Total:              amount(line.Total),
			TotalFormatted:     pricing.FormatPrice(line.Total),
		}
	}

	return SummaryResponse{
		Lines:             lines,
		ItemCount:         s.ItemCount,
		Subtotal:          amount(s.Subtotal),
		SubtotalFormatted: pricing.FormatPrice(s.Subtotal),
		Shipping:          amount(s.Shipping),
		ShippingFormatted: pricing.FormatPrice(s.Shipping),
		FreeShipping:      s.FreeShipping,
		Tax:               amount(s.Tax),
		TaxFormatted:      pricing.FormatPrice(s.Tax),
		Total:             amount(s.Total),
		TotalFormatted:    pricing.FormatPrice(s.Total),
	}
}

func newCartResponse(view *service.CartView) CartResponse {
	items := view.Items
	if items == nil {
		items = []domain.CartLineItem{}
	}

	return CartResponse{
		ID:      view.ID,
		Items:   items,
		Summary: newSummaryResponse(view.Summary),
	}
}

// amount renders an exact amount with at least two fraction digits, so
// 8 becomes "8.00" and tax keeps its sub-cent digits.
func amount(d decimal.Decimal) string {
	places := max(int32(2), -d.Exponent())
	s := d.StringFixed(places)
	for places > 2 && strings.HasSuffix(s, "0") {
		s = s[:len(s)-1]
		places--
	}
	return s
}

func firstImage(p domain.Product) string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
