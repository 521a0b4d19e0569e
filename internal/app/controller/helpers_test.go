package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/catalog"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "controller-test-secret"

type testApp struct {
	router      *gin.Engine
	catalog     service.CatalogService
	cart        service.CartService
	automations service.AutomationService
}

// setupTestApp wires the controllers against the bundled catalog and an in-memory database.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	loader := catalog.NewLoader(catalog.NewFileSource(t.TempDir()))
	catalogService := service.NewCatalogService(repository.NewCatalogRepository(), loader,
		service.CatalogPaths{Products: "products.csv", Collections: "collections.csv"}, nil)
	catalogService.Load(context.Background())

	cartService := service.NewCartService(repository.NewCartRepository(testDB), catalogService, nil, nil, "test-cart")
	automationService := service.NewAutomationService(catalogService, repository.NewJobRepository(testDB), nil, nil, nil)
	t.Cleanup(automationService.Wait)
	dashboardService := service.NewDashboardService(catalogService, automationService)

	products := NewProductController(catalogService)
	collections := NewCollectionController(catalogService)
	search := NewSearchController(catalogService)
	status := NewCatalogController(catalogService)
	cart := NewCartController(cartService)
	admin := NewAdminController(catalogService, automationService, dashboardService)
	session := middleware.NewSessionMiddleware(testSessionSecret, time.Hour, false)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	v1 := r.Group("/api/v1")
	v1.GET("/products", products.ListProducts)
	v1.GET("/products/filters", products.FilterOptions)
	v1.GET("/products/:productId", products.GetProduct)
	v1.GET("/collections", collections.ListCollections)
	v1.GET("/collections/:id", collections.GetCollection)
	v1.GET("/search", search.Search)
	v1.GET("/catalog/status", status.Status)

	cartGroup := v1.Group("/cart", session.Session())
	cartGroup.GET("", cart.GetCart)
	cartGroup.POST("", cart.AddToCart)
	cartGroup.DELETE("", cart.ClearCart)
	cartGroup.PUT("/items/:productId", cart.UpdateQuantity)
	cartGroup.DELETE("/items/:productId", cart.RemoveItem)

	v1.GET("/admin/dashboard", admin.Dashboard)
	v1.POST("/admin/jobs/:kind", admin.RunJob)
	v1.GET("/admin/jobs", admin.ListJobs)
	v1.GET("/admin/jobs/:id", admin.GetJob)
	v1.POST("/admin/import", admin.Import)
	v1.GET("/admin/export.xlsx", admin.ExportXLSX)

	return &testApp{
		router:      r,
		catalog:     catalogService,
		cart:        cartService,
		automations: automationService,
	}
}

func (a *testApp) do(t *testing.T, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func productIDs(t *testing.T, list interface{}) []string {
	t.Helper()
	items, ok := list.([]interface{})
	require.True(t, ok, "expected a JSON array, got %T", list)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.(map[string]interface{})["id"].(string))
	}
	return ids
}

