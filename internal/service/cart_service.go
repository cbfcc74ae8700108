package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCartNotFound = errors.New("cart not found")
)

// CartView is a session cart's stored line items and their computed summary
type CartView struct {
	ID      string
	Items   []domain.CartLineItem
	Summary cart.Summary
}

// CartService defines the session cart use cases. Quantity requests outside
// [1, stock] are clamped or ignored rather than rejected, so every mutation
// of an existing cart succeeds unless the product cannot be added at all.
type CartService interface {
	Create(ctx context.Context) (*CartView, error)
	Get(ctx context.Context, cartID string) (*CartView, error)
	AddItem(ctx context.Context, cartID string, productID, quantity int) (*CartView, error)
	UpdateQuantity(ctx context.Context, cartID string, productID, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, cartID string, productID int) (*CartView, error)
	Delete(ctx context.Context, cartID string) error
	Quote(items []domain.CartLineItem) cart.Summary
}

type cartService struct {
	carts      repository.CartRepository
	calculator *cart.Calculator
	logger     *zap.Logger
}

// NewCartService creates a new instance of CartService
func NewCartService(carts repository.CartRepository, calculator *cart.Calculator, logger *zap.Logger) CartService {
	return &cartService{
		carts:      carts,
		calculator: calculator,
		logger:     logger,
	}
}

func (s *cartService) view(cartID string, items []domain.CartLineItem) *CartView {
	return &CartView{
		ID:      cartID,
		Items:   items,
		Summary: s.calculator.Summarize(items),
	}
}

func (s *cartService) load(ctx context.Context, cartID string) ([]domain.CartLineItem, error) {
	items, err := s.carts.Load(ctx, cartID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

func (s *cartService) save(ctx context.Context, cartID string, items []domain.CartLineItem) (*CartView, error) {
	if err := s.carts.Save(ctx, cartID, items); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return s.view(cartID, items), nil
}

// Create starts an empty session cart with a random id
func (s *cartService) Create(ctx context.Context) (*CartView, error) {
	cartID := uuid.New().String()

	view, err := s.save(ctx, cartID, []domain.CartLineItem{})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cart created", zap.String("cart_id", cartID))
	return view, nil
}

// Get returns the cart summarized against the current catalog
func (s *cartService) Get(ctx context.Context, cartID string) (*CartView, error) {
	items, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.view(cartID, items), nil
}

// AddItem adds quantity units of a product, clamped to its stock
func (s *cartService) AddItem(ctx context.Context, cartID string, productID, quantity int) (*CartView, error) {
	items, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items, err = s.calculator.AddItem(items, productID, quantity)
	if err != nil {
		s.logger.Debug("Add to cart rejected",
			zap.String("cart_id", cartID),
			zap.Int("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	return s.save(ctx, cartID, items)
}

// UpdateQuantity sets a line's quantity. Quantities below 1 and products that
// are not in the cart leave it unchanged.
func (s *cartService) UpdateQuantity(ctx context.Context, cartID string, productID, quantity int) (*CartView, error) {
	items, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	updated := s.calculator.UpdateQuantity(items, productID, quantity)
	if quantity < 1 {
		s.logger.Debug("Ignoring quantity below 1",
			zap.String("cart_id", cartID),
			zap.Int("product_id", productID),
			zap.Int("quantity", quantity),
		)
	}

	return s.save(ctx, cartID, updated)
}

// RemoveItem drops a product's line; removing an absent product is a no-op
func (s *cartService) RemoveItem(ctx context.Context, cartID string, productID int) (*CartView, error) {
	items, err := s.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	return s.save(ctx, cartID, cart.RemoveItem(items, productID))
}

// Delete discards the session cart
func (s *cartService) Delete(ctx context.Context, cartID string) error {
	if err := s.carts.Delete(ctx, cartID); err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return ErrCartNotFound
		}
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	s.logger.Info("Cart deleted", zap.String("cart_id", cartID))
	return nil
}

// Quote summarizes a posted line-item list without storing it
func (s *cartService) Quote(items []domain.CartLineItem) cart.Summary {
	return s.calculator.Summarize(items)
}
