package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSession issues a cart session through the middleware and returns the headers that reuse it.
func newSession(t *testing.T, app *testApp) map[string]string {
	t.Helper()
	w := app.do(t, http.MethodGet, "/api/v1/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, token)
	return map[string]string{middleware.SessionHeader: token}
}

func cartOf(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()
	cart, ok := response["cart"].(map[string]interface{})
	require.True(t, ok)
	return cart
}

func TestCartController_EmptyCart(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/cart", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cart := cartOf(t, decode(t, w))
	assert.Empty(t, cart["items"])
	assert.Equal(t, float64(0), cart["total_items"])
	assert.Equal(t, "0", cart["total_price"])
}

func TestCartController_AddToCart(t *testing.T) {
	app := setupTestApp(t)
	session := newSession(t, app)

	w := app.do(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "prod-001",
		"variant":    "1kg pouch",
		"quantity":   2,
	}, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode(t, w)
	assert.Equal(t, "Added Organic Hemp Protein Powder to cart", response["message"])
	cart := cartOf(t, response)
	assert.Equal(t, float64(2), cart["total_items"])
	assert.Equal(t, "99.98", cart["total_price"])

	items := cart["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "1kg Pouch", item["variant"])
	assert.Equal(t, "49.99", item["price"])

	// Same line again: quantity merges and the message changes.
	w = app.do(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{
		"product_id": "prod-001",
		"variant":    "1kg Pouch",
	}, session)
	require.Equal(t, http.StatusOK, w.Code)
	response = decode(t, w)
	assert.Equal(t, "Updated quantity for Organic Hemp Protein Powder", response["message"])
	assert.Equal(t, float64(3), cartOf(t, response)["total_items"])

	// The cart persists for the session.
	w = app.do(t, http.MethodGet, "/api/v1/cart", nil, session)
	assert.Equal(t, float64(3), cartOf(t, decode(t, w))["total_items"])
}

func TestCartController_AddToCart_Errors(t *testing.T) {
	app := setupTestApp(t)
	session := newSession(t, app)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{"missing product id", map[string]interface{}{"quantity": 1}, http.StatusBadRequest, "VALIDATION_INVALID_INPUT"},
		{"zero quantity", map[string]interface{}{"product_id": "prod-001", "quantity": 0}, http.StatusBadRequest, "CART_INVALID_QUANTITY"},
		{"unknown product", map[string]interface{}{"product_id": "nope"}, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/api/v1/cart", tt.body, session)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error"])
		})
	}
}

func TestCartController_UpdateRemoveClear(t *testing.T) {
	app := setupTestApp(t)
	session := newSession(t, app)

	for _, id := range []string{"prod-002", "prod-003"} {
		w := app.do(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": id}, session)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := app.do(t, http.MethodPut, "/api/v1/cart/items/prod-002", map[string]interface{}{"quantity": 4}, session)
	require.Equal(t, http.StatusOK, w.Code)
	response := decode(t, w)
	assert.Nil(t, response["message"])
	assert.Equal(t, float64(5), cartOf(t, response)["total_items"])
	// 4 x 34.99 sale price + 18.99
	assert.Equal(t, "158.95", cartOf(t, response)["total_price"])

	w = app.do(t, http.MethodPut, "/api/v1/cart/items/prod-002", map[string]interface{}{"quantity": 0}, session)
	require.Equal(t, http.StatusOK, w.Code)
	response = decode(t, w)
	assert.Equal(t, "Item removed from cart", response["message"])
	assert.Equal(t, float64(1), cartOf(t, response)["total_items"])

	w = app.do(t, http.MethodPut, "/api/v1/cart/items/prod-003", map[string]interface{}{}, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodDelete, "/api/v1/cart/items/prod-003", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), cartOf(t, decode(t, w))["total_items"])

	app.do(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": "prod-004"}, session)
	w = app.do(t, http.MethodDelete, "/api/v1/cart", nil, session)
	require.Equal(t, http.StatusOK, w.Code)
	response = decode(t, w)
	assert.Equal(t, "Cart cleared", response["message"])
	assert.Empty(t, cartOf(t, response)["items"])
}

func TestCartController_SessionsAreIsolated(t *testing.T) {
	app := setupTestApp(t)
	first := newSession(t, app)
	second := newSession(t, app)

	app.do(t, http.MethodPost, "/api/v1/cart", map[string]interface{}{"product_id": "prod-005"}, first)

	w := app.do(t, http.MethodGet, "/api/v1/cart", nil, second)
	assert.Equal(t, float64(0), cartOf(t, decode(t, w))["total_items"])
}
