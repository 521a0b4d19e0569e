package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type SearchController struct {
	catalogService service.CatalogService
}

func NewSearchController(catalogService service.CatalogService) *SearchController {
	return &SearchController{
		catalogService: catalogService,
	}
}

// Search matches the term against product names, descriptions and tags.
// A blank term returns no results.
// GET /api/v1/search?q=
func (ctrl *SearchController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	term := c.Query("q")

	results := ctrl.catalogService.Search(term)

	log.Debug("Search completed", map[string]interface{}{
		"term":  term,
		"count": len(results),
	})
	c.JSON(http.StatusOK, gin.H{
		"query":    term,
		"products": results,
		"count":    len(results),
	})
}
