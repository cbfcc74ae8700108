package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCartNotFound = errors.New("cart not found")
)

const cartKeyPrefix = "cart:"

// CartRepository stores the line items of session carts. Writes to the same
// cart are last-writer-wins.
type CartRepository interface {
	Load(ctx context.Context, cartID string) ([]domain.CartLineItem, error)
	Save(ctx context.Context, cartID string, items []domain.CartLineItem) error
	Delete(ctx context.Context, cartID string) error
}

type redisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository creates a CartRepository backed by Redis. Every save
// refreshes the cart's expiry to ttl; a zero ttl keeps carts forever.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) CartRepository {
	return &redisCartRepository{client: client, ttl: ttl}
}

func cartKey(cartID string) string {
	return cartKeyPrefix + cartID
}

// Load retrieves a cart's line items
func (r *redisCartRepository) Load(ctx context.Context, cartID string) ([]domain.CartLineItem, error) {
	data, err := r.client.Get(ctx, cartKey(cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	items := []domain.CartLineItem{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}

	return items, nil
}

// Save replaces a cart's line items
func (r *redisCartRepository) Save(ctx context.Context, cartID string, items []domain.CartLineItem) error {
	if items == nil {
		items = []domain.CartLineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cartID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// Delete removes a cart
func (r *redisCartRepository) Delete(ctx context.Context, cartID string) error {
	deleted, err := r.client.Del(ctx, cartKey(cartID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if deleted == 0 {
		return ErrCartNotFound
	}

	return nil
}

// MemoryCartRepository keeps carts in process memory. It is used when Redis
// is not configured and in tests. Carts expire ttl after their last save,
// as they do in Redis; expired carts are swept on every save.
type MemoryCartRepository struct {
	carts map[string]memoryCart
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
}

type memoryCart struct {
	items     []domain.CartLineItem
	expiresAt time.Time
}

// expired reports whether the cart is past its expiry. A zero expiry never
// expires.
func (c memoryCart) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && !now.Before(c.expiresAt)
}

// NewMemoryCartRepository creates an empty MemoryCartRepository. A zero ttl
// keeps carts until they are deleted.
func NewMemoryCartRepository(ttl time.Duration) *MemoryCartRepository {
	return &MemoryCartRepository{
		carts: make(map[string]memoryCart),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load returns a copy of the cart's line items
func (r *MemoryCartRepository) Load(ctx context.Context, cartID string) ([]domain.CartLineItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[cartID]
	if !ok || cart.expired(r.now()) {
		return nil, ErrCartNotFound
	}

	out := make([]domain.CartLineItem, len(cart.items))
	copy(out, cart.items)
	return out, nil
}

// Save stores a copy of items and refreshes the cart's expiry
func (r *MemoryCartRepository) Save(ctx context.Context, cartID string, items []domain.CartLineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, cart := range r.carts {
		if cart.expired(now) {
			delete(r.carts, id)
		}
	}

	stored := make([]domain.CartLineItem, len(items))
	copy(stored, items)

	cart := memoryCart{items: stored}
	if r.ttl > 0 {
		cart.expiresAt = now.Add(r.ttl)
	}
	r.carts[cartID] = cart
	return nil
}

// Delete removes a cart
func (r *MemoryCartRepository) Delete(ctx context.Context, cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	delete(r.carts, cartID)

	if cart.expired(r.now()) {
		return ErrCartNotFound
	}
	return nil
}

// Len reports how many carts are held, expired ones included until the
// next save sweeps them.
func (r *MemoryCartRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
