package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// CatalogURL is where a shopper is sent back to from a missing product.
const CatalogURL = "/products"

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

// ListProducts returns the catalog narrowed by collection, search and filters
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filters, err := ctrl.parseFilters(c)
	if err != nil {
		log.Warn("Invalid product filters", map[string]interface{}{
			"error": err.Error(),
			"query": c.Request.URL.RawQuery,
		})
		code := apperrors.ValidationInvalidInput
		if errors.Is(err, errInvertedPriceRange) {
			code = apperrors.ValidationInvalidRange
		}
		apperrors.BadRequest(c, code, err.Error())
		return
	}

	result := ctrl.catalogService.ListProducts(service.ProductQuery{
		Collection: c.Query("collection"),
		Search:     c.Query("search"),
		Filters:    filters,
	})

	log.Debug("Products listed", map[string]interface{}{
		"count":      result.Count,
		"collection": c.Query("collection"),
	})
	c.JSON(http.StatusOK, result)
}

var errInvertedPriceRange = errors.New("min_price must not exceed max_price")

// parseFilters reads the filter query parameters. A price bound that is not given defaults to
// the catalog's own bound, so a lone min_price or max_price still forms a full range.
func (ctrl *ProductController) parseFilters(c *gin.Context) (service.FilterConfig, error) {
	cfg := service.FilterConfig{
		Categories: splitQueryList(c.Query("categories")),
		Types:      splitQueryList(c.Query("types")),
	}

	if raw := c.Query("in_stock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, errors.New("in_stock must be true or false")
		}
		cfg.InStock = inStock
	}

	featured, err := parseFeatured(c)
	if err != nil {
		return cfg, err
	}
	cfg.Featured = featured

	minRaw, maxRaw := c.Query("min_price"), c.Query("max_price")
	if minRaw == "" && maxRaw == "" {
		return cfg, nil
	}

	bounds := ctrl.catalogService.FilterOptions().PriceRange
	priceRange := service.PriceRange{Min: bounds.Min, Max: bounds.Max}
	if minRaw != "" {
		v, err := decimal.NewFromString(minRaw)
		if err != nil {
			return cfg, errors.New("min_price must be a number")
		}
		priceRange.Min = v
	}
	if maxRaw != "" {
		v, err := decimal.NewFromString(maxRaw)
		if err != nil {
			return cfg, errors.New("max_price must be a number")
		}
		priceRange.Max = v
	}
	if priceRange.Min.GreaterThan(priceRange.Max) {
		return cfg, errInvertedPriceRange
	}
	cfg.PriceRange = &priceRange
	return cfg, nil
}

var errInvalidFeatured = errors.New("featured must be true or false")

func parseFeatured(c *gin.Context) (bool, error) {
	raw := c.Query("featured")
	if raw == "" {
		return false, nil
	}
	featured, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errInvalidFeatured
	}
	return featured, nil
}

func splitQueryList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// GetProduct returns a single product
// GET /api/v1/products/:productId
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	productID := c.Param("productId")

	product, err := ctrl.catalogService.GetProduct(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"product_id": productID,
			})
			c.JSON(http.StatusNotFound, gin.H{
				"error":       apperrors.ProductNotFound,
				"message":     "The product you're looking for doesn't exist.",
				"catalog_url": CatalogURL,
			})
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// FilterOptions returns the choices a filter panel renders
// GET /api/v1/products/filters
func (ctrl *ProductController) FilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.catalogService.FilterOptions())
}
