package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Catalog   CatalogConfig
	Cart      CartConfig
	Session   SessionConfig
	S3        S3Config
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	GinMode     string `envconfig:"GIN_MODE" default:"debug"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"console"`
}

type DatabaseConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"` // postgres, sqlite
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASSWORD" default:"1234"`
	DBName   string `envconfig:"DB_NAME" default:"storefront"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	Path     string `envconfig:"DB_PATH" default:"storefront.db"` // sqlite only
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// CatalogConfig controls where the products and collections CSV files come from.
type CatalogConfig struct {
	Source          string `envconfig:"CATALOG_SOURCE" default:"file"` // file, http, s3
	Dir             string `envconfig:"CATALOG_DIR" default:"./public"`
	BaseURL         string `envconfig:"CATALOG_BASE_URL"`
	ProductsPath    string `envconfig:"CATALOG_PRODUCTS_PATH" default:"equantum_SOT2.csv"`
	CollectionsPath string `envconfig:"CATALOG_COLLECTIONS_PATH" default:"collections with descriptions.csv"`
	RefreshCron     string `envconfig:"CATALOG_REFRESH_CRON"`
}

// CartConfig selects the cart backend. Cached sessions idle longer than SessionIdleTTL are
// dropped from memory on EvictionCron; their carts stay in the store.
type CartConfig struct {
	Store          string        `envconfig:"CART_STORE" default:"database"` // database, redis
	KeyNamespace   string        `envconfig:"CART_KEY_NAMESPACE" default:"storefront-cart"`
	SessionIdleTTL time.Duration `envconfig:"CART_SESSION_IDLE_TTL" default:"30m"`
	EvictionCron   string        `envconfig:"CART_EVICTION_CRON" default:"@every 5m"`
}

type SessionConfig struct {
	Secret string        `envconfig:"SESSION_SECRET" default:"your-secret-key"`
	Expiry time.Duration `envconfig:"SESSION_EXPIRY" default:"720h"`
}

type S3Config struct {
	Region          string `envconfig:"AWS_REGION" default:"us-east-1"`
	Bucket          string `envconfig:"AWS_S3_BUCKET" default:"storefront-catalog"`
	AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	Prefix          string `envconfig:"AWS_S3_PREFIX"`
}

type TelemetryConfig struct {
	Enabled     bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
	ServiceName string `envconfig:"TELEMETRY_SERVICE_NAME" default:"storefront-backend"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Catalog.Source = strings.ToLower(strings.TrimSpace(cfg.Catalog.Source))
	cfg.Cart.Store = strings.ToLower(strings.TrimSpace(cfg.Cart.Store))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case "file", "http", "s3":
	default:
		return fmt.Errorf("unsupported CATALOG_SOURCE %q", c.Catalog.Source)
	}
	if c.Catalog.Source == "http" && c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_BASE_URL is required when CATALOG_SOURCE=http")
	}
	switch c.Cart.Store {
	case "database", "redis":
	default:
		return fmt.Errorf("unsupported CART_STORE %q", c.Cart.Store)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (s ServerConfig) IsDevelopment() bool {
	return strings.EqualFold(s.Environment, "development")
}
