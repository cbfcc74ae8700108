package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"storefront/internal/pricing"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Catalog sources
const (
	CatalogSourceSeed     = "seed"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Pricing   PricingConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type CatalogConfig struct {
	Source string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type CartConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// PricingConfig holds the pricing policy as decimal strings; Policy parses it
type PricingConfig struct {
	FreeShippingThreshold string
	FlatShippingFee       string
	TaxRate               string
}

// IsDevelopment reports whether the server runs outside production
func (c ServerConfig) IsDevelopment() bool {
	return c.Env != "production"
}

// Addr returns the Redis address in host:port form
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Policy parses the configured amounts into a pricing policy
func (c PricingConfig) Policy() (pricing.Policy, error) {
	threshold, err := decimal.NewFromString(c.FreeShippingThreshold)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("invalid PRICING_FREE_SHIPPING_THRESHOLD %q: %w", c.FreeShippingThreshold, err)
	}
	fee, err := decimal.NewFromString(c.FlatShippingFee)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("invalid PRICING_FLAT_SHIPPING_FEE %q: %w", c.FlatShippingFee, err)
	}
	rate, err := decimal.NewFromString(c.TaxRate)
	if err != nil {
		return pricing.Policy{}, fmt.Errorf("invalid PRICING_TAX_RATE %q: %w", c.TaxRate, err)
	}

	if threshold.IsNegative() || fee.IsNegative() || rate.IsNegative() {
		return pricing.Policy{}, errors.New("pricing amounts must not be negative")
	}

	return pricing.Policy{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		TaxRate:               rate,
	}, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func Load() *Config {
	// Values already present in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CATALOG_SOURCE", CatalogSourceSeed)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CART_TTL_HOURS", 72)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("PRICING_FREE_SHIPPING_THRESHOLD", pricing.FreeShippingThreshold.String())
	v.SetDefault("PRICING_FLAT_SHIPPING_FEE", pricing.FlatShippingFee.String())
	v.SetDefault("PRICING_TAX_RATE", pricing.TaxRate.String())

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Catalog: CatalogConfig{
			Source: strings.ToLower(v.GetString("CATALOG_SOURCE")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cart: CartConfig{
			TTL: time.Duration(v.GetInt("CART_TTL_HOURS")) * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(v.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Pricing: PricingConfig{
			FreeShippingThreshold: v.GetString("PRICING_FREE_SHIPPING_THRESHOLD"),
			FlatShippingFee:       v.GetString("PRICING_FLAT_SHIPPING_FEE"),
			TaxRate:               v.GetString("PRICING_TAX_RATE"),
		},
	}
}
