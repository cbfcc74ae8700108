package catalog

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
)

var validate = validator.New()

type productRules struct {
	ID       int      `validate:"gt=0"`
	Name     string   `validate:"required"`
	Category string   `validate:"required,lowercase"`
	Rating   float64  `validate:"gte=0,lte=5"`
	Images   []string `validate:"min=1,dive,url"`
	Stock    int      `validate:"gte=0"`
	Tags     []string `validate:"dive,lowercase"`
}

type categoryRules struct {
	ID   int    `validate:"gt=0"`
	Name string `validate:"required"`
	Slug string `validate:"required,lowercase"`
}

// Validate checks every product and category invariant and returns an error
// wrapping ErrInvalidCatalog that lists each violation.
func Validate(products []domain.Product, categories []domain.Category) error {
	var problems []string

	slugs := make(map[string]bool, len(categories))
	categoryIDs := make(map[int]bool, len(categories))
	for _, c := range categories {
		if err := validate.Struct(categoryRules{ID: c.ID, Name: c.Name, Slug: c.Slug}); err != nil {
			problems = append(problems, describe(fmt.Sprintf("category %q", c.Slug), err)...)
		}
		if slugs[c.Slug] {
			problems = append(problems, fmt.Sprintf("category %q: duplicate slug", c.Slug))
		}
		if categoryIDs[c.ID] {
			problems = append(problems, fmt.Sprintf("category %q: duplicate id %d", c.Slug, c.ID))
		}
		slugs[c.Slug] = true
		categoryIDs[c.ID] = true
	}

	productIDs := make(map[int]bool, len(products))
	for _, p := range products {
		label := fmt.Sprintf("product %d", p.ID)

		err := validate.Struct(productRules{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Rating:   p.Rating,
			Images:   p.Images,
			Stock:    p.Stock,
			Tags:     p.Tags,
		})
		if err != nil {
			problems = append(problems, describe(label, err)...)
		}

		if productIDs[p.ID] {
			problems = append(problems, label+": duplicate id")
		}
		productIDs[p.ID] = true

		if p.Price.IsNegative() {
			problems = append(problems, label+": price must not be negative")
		}
		if !p.Price.Equal(p.Price.Round(2)) {
			problems = append(problems, label+": price has more than two decimal places")
		}
		if p.DiscountPrice.Valid {
			d := p.DiscountPrice.Decimal
			if !d.IsPositive() || !d.LessThan(p.Price) {
				problems = append(problems, label+": discount price must be in (0, price)")
			}
		}
		if p.Category != "" && !slugs[p.Category] {
			problems = append(problems, fmt.Sprintf("%s: unknown category %q", label, p.Category))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}

func describe(label string, err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{label + ": " + err.Error()}
	}

	out := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, fmt.Sprintf("%s: %s failed %s", label, fe.Field(), fe.Tag()))
	}
	return out
}
