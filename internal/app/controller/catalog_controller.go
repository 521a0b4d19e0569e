package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// Status reports where the active catalog came from and whether loading failed
// GET /api/v1/catalog/status
func (ctrl *CatalogController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.catalogService.Status())
}
