package catalog

import (
	_ "embed"
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed/catalog.yaml
var seedYAML []byte

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
	Products   []seedProduct  `yaml:"products"`
}

type seedCategory struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// Prices are quoted strings so they never pass through float64
type seedProduct struct {
	ID            int      `yaml:"id"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	Price         string   `yaml:"price"`
	DiscountPrice string   `yaml:"discount_price"`
	Category      string   `yaml:"category"`
	Rating        float64  `yaml:"rating"`
	Images        []string `yaml:"images"`
	Stock         int      `yaml:"stock"`
	Tags          []string `yaml:"tags"`
}

// LoadSeed builds a Store from the catalog bundled with the binary
func LoadSeed() (*Store, error) {
	return Parse(seedYAML)
}

// Parse builds a Store from a YAML catalog document
func Parse(data []byte) (*Store, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	categories := make([]domain.Category, 0, len(file.Categories))
	for _, c := range file.Categories {
		categories = append(categories, domain.Category{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}

	products := make([]domain.Product, 0, len(file.Products))
	for _, p := range file.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: invalid price %q", ErrInvalidCatalog, p.ID, p.Price)
		}

		var discount decimal.NullDecimal
		if p.DiscountPrice != "" {
			d, err := decimal.NewFromString(p.DiscountPrice)
			if err != nil {
				return nil, fmt.Errorf("%w: product %d: invalid discount price %q", ErrInvalidCatalog, p.ID, p.DiscountPrice)
			}
			discount = decimal.NewNullDecimal(d)
		}

		products = append(products, domain.Product{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			Price:         price,
			DiscountPrice: discount,
			Category:      p.Category,
			Rating:        p.Rating,
			Images:        p.Images,
			Stock:         p.Stock,
			Tags:          p.Tags,
		})
	}

	return New(products, categories)
}
