package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductController_ListProducts(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"all", "", []string{"prod-001", "prod-002", "prod-003", "prod-004", "prod-005", "prod-006", "prod-007", "prod-008"}},
		{"collection by type", "?collection=tea", []string{"prod-002"}},
		{"collection all", "?collection=all", []string{"prod-001", "prod-002", "prod-003", "prod-004", "prod-005", "prod-006", "prod-007", "prod-008"}},
		{"categories", "?categories=Beauty,Pantry", []string{"prod-003", "prod-005"}},
		{"types", "?types=Adaptogens", []string{"prod-004", "prod-008"}},
		{"search", "?search=matcha", []string{"prod-002"}},
		{"max price only", "?max_price=19", []string{"prod-003", "prod-006"}},
		{"sale price counts", "?min_price=34&max_price=35", []string{"prod-002"}},
		{"in stock", "?in_stock=true&types=Protein", []string{"prod-001"}},
		{"featured", "?featured=true", []string{"prod-001", "prod-002", "prod-004", "prod-008"}},
		{"featured with category", "?featured=true&categories=Superfoods", []string{"prod-001", "prod-002", "prod-004"}},
		{"featured false", "?featured=false&types=Cacao", []string{"prod-006"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodGet, "/api/v1/products"+tt.query, nil, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			response := decode(t, w)
			assert.Equal(t, tt.expected, productIDs(t, response["products"]))
			assert.Equal(t, float64(len(tt.expected)), response["count"])
		})
	}
}

func TestProductController_ListProducts_CollectionBanner(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/products?collection=Tea", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	banner, ok := response["collection"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Tea", banner["name"])

	filters := response["filters"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Tea"}, filters["types"])
}

func TestProductController_ListProducts_InvalidFilters(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		query string
		code  string
	}{
		{"?min_price=abc", "VALIDATION_INVALID_INPUT"},
		{"?in_stock=maybe", "VALIDATION_INVALID_INPUT"},
		{"?featured=sometimes", "VALIDATION_INVALID_INPUT"},
		{"?min_price=50&max_price=10", "VALIDATION_INVALID_RANGE"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := app.do(t, http.MethodGet, "/api/v1/products"+tt.query, nil, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error"])
		})
	}
}

func TestProductController_GetProduct(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/products/prod-002", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	product := decode(t, w)["product"].(map[string]interface{})
	assert.Equal(t, "Ceremonial Grade Matcha", product["name"])
	assert.Equal(t, "34.99", product["sale_price"])
}

func TestProductController_GetProduct_NotFound(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/products/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	response := decode(t, w)
	assert.Equal(t, "PRODUCT_NOT_FOUND", response["error"])
	assert.Equal(t, CatalogURL, response["catalog_url"])
	assert.NotEmpty(t, response["message"])
}

func TestProductController_FilterOptions(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/products/filters", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, []interface{}{"Superfoods", "Pantry", "Beauty", "Supplements"}, response["categories"])
	priceRange := response["price_range"].(map[string]interface{})
	assert.Equal(t, "15", priceRange["min"])
	assert.Equal(t, "45", priceRange["max"])
	assert.Equal(t, float64(8), response["in_stock_count"])
}

func TestCollectionController(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/collections", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), decode(t, w)["count"])

	for _, key := range []string{"col-005", "oils-&-butters"} {
		w = app.do(t, http.MethodGet, "/api/v1/collections/"+key, nil, nil)
		require.Equal(t, http.StatusOK, w.Code, key)
		response := decode(t, w)
		assert.Equal(t, "Oils & Butters", response["collection"].(map[string]interface{})["name"])
		assert.ElementsMatch(t, []string{"prod-003", "prod-005"}, productIDs(t, response["products"]))
	}

	w = app.do(t, http.MethodGet, "/api/v1/collections/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COLLECTION_NOT_FOUND", decode(t, w)["error"])
}

func TestCollectionController_ListFeatured(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/collections?featured=true", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Equal(t, []string{"col-001", "col-002", "col-003"}, productIDs(t, response["collections"]))
	assert.Equal(t, float64(3), response["count"])

	w = app.do(t, http.MethodGet, "/api/v1/collections?featured=nope", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", decode(t, w)["error"])
}

func TestSearchController(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/search?q=ADAPTOGEN", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Contains(t, productIDs(t, response["products"]), "prod-004")

	w = app.do(t, http.MethodGet, "/api/v1/search?q=%20%20", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestCatalogController_Status(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/catalog/status", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, true, response["using_mock"])
	assert.Equal(t, false, response["is_loading"])
	assert.Equal(t, "Failed to load product and collection data. Using mock data instead.", response["error"])
	assert.Equal(t, float64(8), response["product_count"])
}
