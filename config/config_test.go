package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "file", cfg.Catalog.Source)
	assert.Equal(t, "equantum_SOT2.csv", cfg.Catalog.ProductsPath)
	assert.Equal(t, "collections with descriptions.csv", cfg.Catalog.CollectionsPath)
	assert.Equal(t, "storefront-cart", cfg.Cart.KeyNamespace)
	assert.Equal(t, 30*time.Minute, cfg.Cart.SessionIdleTTL)
	assert.Equal(t, "@every 5m", cfg.Cart.EvictionCron)
	assert.Equal(t, 720*time.Hour, cfg.Session.Expiry)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CATALOG_SOURCE", "HTTP")
	t.Setenv("CATALOG_BASE_URL", "https://cdn.example.com/catalog")
	t.Setenv("CART_STORE", "redis")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http", cfg.Catalog.Source)
	assert.Equal(t, "redis", cfg.Cart.Store)
	assert.Len(t, cfg.CORS.AllowedOrigins, 2)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown catalog source", env: map[string]string{"CATALOG_SOURCE": "ftp"}},
		{name: "http source without base url", env: map[string]string{"CATALOG_SOURCE": "http"}},
		{name: "unknown cart store", env: map[string]string{"CART_STORE": "memcached"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", pg.DSN())

	lite := DatabaseConfig{Driver: "sqlite", Path: "/tmp/shop.db"}
	assert.Equal(t, "/tmp/shop.db", lite.DSN())
}
