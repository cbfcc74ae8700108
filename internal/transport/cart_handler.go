package transport

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxQuoteQuantity bounds a quoted line's quantity and keeps item counts
// and totals far from integer overflow. Kept in step with the lte tag below.
const MaxQuoteQuantity = 10000

// LineItemRequest is one posted cart line
type LineItemRequest struct {
	ProductID int `json:"product_id" validate:"gt=0"`
	Quantity  int `json:"quantity" validate:"gte=1,lte=10000"`
}

// QuoteRequest represents a stateless cart quote. An empty list is valid.
type QuoteRequest struct {
	Items []LineItemRequest `json:"items" validate:"max=100,dive"`
}

// AddItemRequest represents adding a product to a session cart. Quantities
// below 1 count as 1.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"gt=0"`
	Quantity  int `json:"quantity"`
}

// UpdateQuantityRequest represents a quantity change. Quantities below 1
// leave the cart unchanged.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartHandler handles HTTP requests for cart quotes and session carts
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/cart/quote", h.Quote)

	r.Route("/api/carts", func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Delete)
			r.Post("/items", h.AddItem)
			r.Put("/items/{productID}", h.UpdateQuantity)
			r.Delete("/items/{productID}", h.RemoveItem)
		})
	})
}

// Quote handles pricing a posted line-item list
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Quote validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	items := make([]domain.CartLineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.CartLineItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	middleware.RespondWithJSON(w, http.StatusOK, newSummaryResponse(h.cartService.Quote(items)))
}

// Create handles starting a session cart
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.Create(r.Context())
	if err != nil {
		h.respondWithCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, newCartResponse(view))
}

// Get handles fetching a session cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.Get(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		h.respondWithCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(view))
}

// AddItem handles adding a product to a session cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add item validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	view, err := h.cartService.AddItem(r.Context(), chi.URLParam(r, "cartID"), req.ProductID, req.Quantity)
	if err != nil {
		h.respondWithCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(view))
}

// UpdateQuantity handles changing a line's quantity
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req UpdateQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update quantity validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	view, err := h.cartService.UpdateQuantity(r.Context(), chi.URLParam(r, "cartID"), productID, *req.Quantity)
	if err != nil {
		h.respondWithCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(view))
}

// RemoveItem handles removing a line from a session cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	view, err := h.cartService.RemoveItem(r.Context(), chi.URLParam(r, "cartID"), productID)
	if err != nil {
		h.respondWithCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newCartResponse(view))
}

// Delete handles discarding a session cart
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.Delete(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		h.respondWithCartError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) respondWithCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "cart not found")
	case errors.Is(err, cart.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cart.ErrOutOfStock):
		middleware.RespondWithError(w, http.StatusConflict, "product is out of stock")
	default:
		h.logger.Error("Cart request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
