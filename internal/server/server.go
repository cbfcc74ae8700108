package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// Dependencies are the resources the server is built from. DB and Redis are
// optional: without Redis carts live in memory and no rate limit applies.
type Dependencies struct {
	Catalog *catalog.Store
	DB      *sql.DB
	Redis   *redis.Client
}

// LoadCatalog builds the catalog from the configured source
func LoadCatalog(ctx context.Context, cfg *config.Config, db *sql.DB) (*catalog.Store, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceSeed:
		return catalog.LoadSeed()
	case config.CatalogSourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("catalog source %q requires a database connection", cfg.Catalog.Source)
		}
		source := repository.NewCatalogSource(
			repository.NewProductRepository(db),
			repository.NewCategoryRepository(db),
		)
		return catalog.Load(ctx, source)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) (*Server, error) {
	policy, err := cfg.Pricing.Policy()
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing policy: %w", err)
	}

	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	var carts repository.CartRepository
	if deps.Redis != nil {
		carts = repository.NewRedisCartRepository(deps.Redis, cfg.Cart.TTL)
		router.Use(custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "rate_limit",
		}, logger))
	} else {
		logger.Warn("Redis disabled, carts are kept in memory and requests are not rate limited")
		carts = repository.NewMemoryCartRepository(cfg.Cart.TTL)
	}

	s := &Server{
		config: cfg,
		logger: logger,
		db:     deps.DB,
		redis:  deps.Redis,
	}

	router.Get("/health", s.health)

	calculator := cart.NewCalculator(deps.Catalog, policy)

	catalogHandler := transport.NewCatalogHandler(service.NewCatalogService(deps.Catalog), logger)
	cartHandler := transport.NewCartHandler(service.NewCartService(carts, calculator, logger), logger)

	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			s.logger.Warn("Redis health check failed", zap.Error(err))
			status["redis"] = "down"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			status["redis"] = "up"
		}
	}

	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.logger.Warn("Database health check failed", zap.Error(err))
			status["database"] = "down"
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "up"
		}
	}

	custommiddleware.RespondWithJSON(w, code, status)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
