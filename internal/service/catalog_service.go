package service

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

const (
	// FeaturedLimit is the number of products on the home page's featured row
	FeaturedLimit = 4
	// TrendingLimit is the default size of the trending row
	TrendingLimit = 8
	// SimilarLimit is the number of related products on a product page
	SimilarLimit = 4
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrImageNotFound   = errors.New("image not found")
)

// HomePage is the content of the storefront landing page
type HomePage struct {
	Featured []domain.Product
	Trending []domain.Product
}

// CategoryPage is a category header and its products
type CategoryPage struct {
	Category domain.Category
	Known    bool
	Products []domain.Product
}

// ProductDetail is a product with its derived pricing and related products
type ProductDetail struct {
	Product         domain.Product
	UnitPrice       decimal.Decimal
	HasDiscount     bool
	DiscountPercent int
	Purchasable     bool
	Similar         []domain.Product
}

// ImageView is one image of a product's gallery with its carousel neighbours
type ImageView struct {
	URL   string
	Index int
	Count int
	Next  int
	Prev  int
}

// CatalogService defines the read-side storefront use cases
type CatalogService interface {
	Home(shuffle catalog.Shuffler) HomePage
	Categories() []domain.Category
	CategoryPage(slug string) CategoryPage
	Search(query string) []domain.Product
	ProductsByTag(tag string) []domain.Product
	Featured() []domain.Product
	Trending(limit int, shuffle catalog.Shuffler) []domain.Product
	ProductDetail(id int) (*ProductDetail, error)
	Image(productID, index int) (*ImageView, error)
}

type catalogService struct {
	store *catalog.Store
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(store *catalog.Store) CatalogService {
	return &catalogService{store: store}
}

// Home returns the featured row and a trending row ordered by shuffle
func (s *catalogService) Home(shuffle catalog.Shuffler) HomePage {
	return HomePage{
		Featured: s.Featured(),
		Trending: s.Trending(TrendingLimit, shuffle),
	}
}

func (s *catalogService) Categories() []domain.Category {
	return s.store.ListCategories()
}

// CategoryPage never fails: an unknown slug gets a title derived from the
// slug and an empty product list.
func (s *catalogService) CategoryPage(slug string) CategoryPage {
	category, ok := s.store.GetCategoryBySlug(slug)
	if !ok {
		category = domain.Category{Name: titleFromSlug(slug), Slug: strings.ToLower(slug)}
	}

	return CategoryPage{
		Category: category,
		Known:    ok,
		Products: s.store.GetProductsByCategory(slug),
	}
}

func (s *catalogService) Search(query string) []domain.Product {
	return s.store.Search(query)
}

func (s *catalogService) ProductsByTag(tag string) []domain.Product {
	return s.store.ProductsByTag(tag)
}

func (s *catalogService) Featured() []domain.Product {
	return s.store.Featured(FeaturedLimit)
}

func (s *catalogService) Trending(limit int, shuffle catalog.Shuffler) []domain.Product {
	return s.store.Trending(limit, shuffle)
}

// ProductDetail resolves a product with its pricing and up to SimilarLimit
// products from the same category
func (s *catalogService) ProductDetail(id int) (*ProductDetail, error) {
	product, ok := s.store.GetProductByID(id)
	if !ok {
		return nil, ErrProductNotFound
	}

	return &ProductDetail{
		Product:         product,
		UnitPrice:       pricing.EffectiveUnitPrice(product),
		HasDiscount:     pricing.HasDiscount(product),
		DiscountPercent: pricing.DiscountPercent(product),
		Purchasable:     cart.Purchasable(product),
		Similar:         s.store.Similar(product, SimilarLimit),
	}, nil
}

// Image returns the image at index together with the indexes the carousel's
// next and previous controls lead to
func (s *catalogService) Image(productID, index int) (*ImageView, error) {
	product, ok := s.store.GetProductByID(productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	count := len(product.Images)
	if index < 0 || index >= count {
		return nil, ErrImageNotFound
	}

	return &ImageView{
		URL:   product.Images[index],
		Index: index,
		Count: count,
		Next:  catalog.NextImage(index, count),
		Prev:  catalog.PrevImage(index, count),
	}, nil
}

func titleFromSlug(slug string) string {
	r, size := utf8.DecodeRuneInString(slug)
	if r == utf8.RuneError {
		return slug
	}
	return string(unicode.ToUpper(r)) + slug[size:]
}
