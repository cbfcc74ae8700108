package transport

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HomeResponse represents the landing page rows
type HomeResponse struct {
	Featured []ProductResponse `json:"featured"`
	Trending []ProductResponse `json:"trending"`
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
	randomSeed     func() uint64
}

// NewCatalogHandler creates a new CatalogHandler. Trending requests without
// a seed parameter are shuffled with a random seed.
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
		randomSeed:     rand.Uint64,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/home", h.Home)

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{slug}", h.GetCategory)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/featured", h.Featured)
		r.Get("/trending", h.Trending)
		r.Get("/{id}", h.GetProduct)
		r.Get("/{id}/images/{index}", h.GetImage)
	})
}

// shuffler builds the trending order from ?seed=, falling back to a random seed
func (h *CatalogHandler) shuffler(r *http.Request) (catalog.Shuffler, error) {
	raw := r.URL.Query().Get("seed")
	if raw == "" {
		return catalog.SeededShuffler(h.randomSeed()), nil
	}

	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return catalog.SeededShuffler(seed), nil
}

// Home handles the landing page
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	shuffle, err := h.shuffler(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "seed must be a non-negative integer")
		return
	}

	home := h.catalogService.Home(shuffle)
	middleware.RespondWithJSON(w, http.StatusOK, HomeResponse{
		Featured: newProductResponses(home.Featured),
		Trending: newProductResponses(home.Trending),
	})
}

// ListCategories handles listing all categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, newCategoryResponses(h.catalogService.Categories()))
}

// GetCategory handles a category page. Unknown slugs yield an empty page.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	page := h.catalogService.CategoryPage(chi.URLParam(r, "slug"))
	middleware.RespondWithJSON(w, http.StatusOK, newCategoryPageResponse(page))
}

// ListProducts handles ?tag= filtering and ?q= search; with neither it lists
// everything. When both are given tag takes precedence and q is ignored.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if tag := query.Get("tag"); tag != "" {
		middleware.RespondWithJSON(w, http.StatusOK, newProductResponses(h.catalogService.ProductsByTag(tag)))
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductResponses(h.catalogService.Search(query.Get("q"))))
}

// Featured handles the featured row
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, newProductResponses(h.catalogService.Featured()))
}

// Trending handles the trending row
func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit := service.TrendingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	shuffle, err := h.shuffler(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "seed must be a non-negative integer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductResponses(h.catalogService.Trending(limit, shuffle)))
}

// GetProduct handles the product page
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	detail, err := h.catalogService.ProductDetail(id)
	if err != nil {
		h.respondWithCatalogError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductDetailResponse(detail))
}

// GetImage handles gallery navigation
func (h *CatalogHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image index")
		return
	}

	view, err := h.catalogService.Image(id, index)
	if err != nil {
		h.respondWithCatalogError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newImageResponse(view))
}

func (h *CatalogHandler) respondWithCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrImageNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "image not found")
	default:
		h.logger.Error("Catalog request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
