package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the API process needs. Values come from the
// environment (see the envconfig tags); cmd/api loads a .env file first so
// local runs don't need exported vars.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	HTTP    HTTPConfig
	Catalog CatalogConfig
	Orders  OrdersConfig
}

type HTTPConfig struct {
	Port         int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
}

// CatalogConfig points at the upstream menu API the normalizer feeds from.
type CatalogConfig struct {
	BaseURL      string        `envconfig:"CATALOG_BASE_URL" default:"http://localhost:9090"`
	FetchTimeout time.Duration `envconfig:"CATALOG_FETCH_TIMEOUT" default:"10s"`
	CacheTTL     time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"2m"`
}

// OrdersConfig configures the order database. DSN may be empty in dev, in
// which case order submission is disabled and the rest of the API still works.
type OrdersConfig struct {
	DSN string `envconfig:"ORDERS_DSN" default:""`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
