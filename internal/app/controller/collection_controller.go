package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type CollectionController struct {
	catalogService service.CatalogService
}

func NewCollectionController(catalogService service.CatalogService) *CollectionController {
	return &CollectionController{
		catalogService: catalogService,
	}
}

// ListCollections returns every collection, or only featured ones with featured=true
// GET /api/v1/collections
func (ctrl *CollectionController) ListCollections(c *gin.Context) {
	featured, err := parseFeatured(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	collections := ctrl.catalogService.ListCollections(featured)
	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"count":       len(collections),
	})
}

// GetCollection looks a collection up by id or slug and returns it with its products
// GET /api/v1/collections/:id
func (ctrl *CollectionController) GetCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	key := c.Param("id")

	collection, err := ctrl.catalogService.GetCollection(key)
	if err != nil {
		if errors.Is(err, service.ErrCollectionNotFound) {
			log.Warn("Collection not found", map[string]interface{}{
				"collection": key,
			})
			apperrors.NotFound(c, apperrors.CollectionNotFound, "Collection not found")
			return
		}
		apperrors.ParseAndRespond(c, err, "load the collection")
		return
	}

	snap := ctrl.catalogService.Snapshot()
	products := make([]interface{}, 0, len(collection.Products))
	for _, id := range collection.Products {
		if p, ok := snap.FindProduct(id); ok {
			products = append(products, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": collection,
		"products":   products,
	})
}
