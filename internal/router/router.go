package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	productController      *controller.ProductController
	collectionController   *controller.CollectionController
	searchController       *controller.SearchController
	catalogController      *controller.CatalogController
	cartController         *controller.CartController
	adminController        *controller.AdminController
	notificationController *controller.NotificationController
	sessionMiddleware      *middleware.SessionMiddleware
	httpMetrics            *metrics.HTTPMetrics
	gatherer               prometheus.Gatherer
	config                 *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	collectionController *controller.CollectionController,
	searchController *controller.SearchController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	adminController *controller.AdminController,
	notificationController *controller.NotificationController,
	sessionMiddleware *middleware.SessionMiddleware,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	cfg *config.Config,
) *Router {
	return &Router{
		productController:      productController,
		collectionController:   collectionController,
		searchController:       searchController,
		catalogController:      catalogController,
		cartController:         cartController,
		adminController:        adminController,
		notificationController: notificationController,
		sessionMiddleware:      sessionMiddleware,
		httpMetrics:            httpMetrics,
		gatherer:               gatherer,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(r.httpMetrics))
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/filters", r.productController.FilterOptions)
			products.GET("/:productId", r.productController.GetProduct)
		}

		collections := v1.Group("/collections")
		{
			collections.GET("", r.collectionController.ListCollections)
			collections.GET("/:id", r.collectionController.GetCollection)
		}

		v1.GET("/search", r.searchController.Search)
		v1.GET("/catalog/status", r.catalogController.Status)

		cart := v1.Group("/cart", r.sessionMiddleware.Session())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.PUT("/items/:productId", r.cartController.UpdateQuantity)
			cart.DELETE("/items/:productId", r.cartController.RemoveItem)
		}

		v1.GET("/notifications/ws", r.sessionMiddleware.Session(), r.notificationController.SessionStream)

		admin := v1.Group("/admin")
		{
			admin.GET("/dashboard", r.adminController.Dashboard)
			admin.POST("/jobs/:kind", r.adminController.RunJob)
			admin.GET("/jobs", r.adminController.ListJobs)
			admin.GET("/jobs/:id", r.adminController.GetJob)
			admin.POST("/import", r.adminController.Import)
			admin.GET("/export.xlsx", r.adminController.ExportXLSX)
			admin.GET("/ws", r.notificationController.AdminStream)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = nil
	anyOrigin := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			anyOrigin = true
			break
		}
		cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
	}
	// Credentialed responses cannot carry "*", so an open policy echoes the caller's origin.
	if anyOrigin {
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Content-Type", "Accept", "Origin", "Cache-Control", "X-Requested-With", middleware.SessionHeader}
	cfg.ExposeHeaders = []string{middleware.SessionHeader, middleware.RequestIDHeader}
	cfg.AllowCredentials = true
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
