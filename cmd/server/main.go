package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/catalog"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/router"
	"github.com/ikkim/storefront-backend/internal/scheduler"
	"github.com/ikkim/storefront-backend/internal/storage"
	"github.com/ikkim/storefront-backend/internal/websocket"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/metrics"
	"github.com/ikkim/storefront-backend/pkg/redis"
	"github.com/ikkim/storefront-backend/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	catalogFetchTimeout = 30 * time.Second
	shutdownTimeout     = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.IsDevelopment() {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.IsDevelopment(),
	})

	logger.Info("Starting storefront backend", map[string]interface{}{
		"environment":    cfg.Server.Environment,
		"port":           cfg.Server.Port,
		"log_level":      logLevel,
		"catalog_source": cfg.Catalog.Source,
		"cart_store":     cfg.Cart.Store,
	})

	tracing, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricSet := metrics.NewSet(registry)

	// Object storage backs the s3 catalog source and the upload job.
	var objectStore *storage.S3Storage
	if cfg.Catalog.Source == "s3" || cfg.S3.AccessKeyID != "" {
		objectStore, err = storage.NewS3Storage(context.Background(),
			cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.Prefix)
		if err != nil {
			logger.Fatal("Failed to initialize object storage", err)
		}
	}

	var source catalog.Source
	switch cfg.Catalog.Source {
	case "http":
		source = catalog.NewHTTPSource(cfg.Catalog.BaseURL, tracing.NewHTTPClient(catalogFetchTimeout))
	case "s3":
		source = catalog.NewObjectSource(objectStore, "")
	default:
		source = catalog.NewFileSource(cfg.Catalog.Dir)
	}

	cartRepo := repository.NewCartRepository(db.GetDB())
	if cfg.Cart.Store == "redis" {
		client, err := redis.Init(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		cartRepo = repository.NewRedisCartRepository(client, cfg.Session.Expiry)
	}
	jobRepo := repository.NewJobRepository(db.GetDB())

	hub := websocket.NewHub()
	go hub.Run()

	catalogService := service.NewCatalogService(
		repository.NewCatalogRepository(),
		catalog.NewLoader(source),
		service.CatalogPaths{Products: cfg.Catalog.ProductsPath, Collections: cfg.Catalog.CollectionsPath},
		metricSet.Catalog,
	)
	cartService := service.NewCartService(cartRepo, catalogService, hub, metricSet.Cart, cfg.Cart.KeyNamespace)

	var uploader service.ObjectPutter
	if objectStore != nil {
		uploader = objectStore
	}
	automationService := service.NewAutomationService(catalogService, jobRepo, uploader, hub, metricSet.Jobs)
	dashboardService := service.NewDashboardService(catalogService, automationService)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), catalogFetchTimeout)
	snapshot := catalogService.Load(loadCtx)
	cancelLoad()
	logger.Info("Catalog ready", map[string]interface{}{
		"source":      snapshot.Status.Source,
		"products":    snapshot.Status.ProductCount,
		"collections": snapshot.Status.CollectionCount,
		"using_mock":  snapshot.Status.UsingMock,
	})

	var refreshScheduler *scheduler.CatalogRefreshScheduler
	if cfg.Catalog.RefreshCron != "" {
		refreshScheduler = scheduler.NewCatalogRefreshScheduler(automationService, cfg.Catalog.RefreshCron)
		if err := refreshScheduler.Start(); err != nil {
			logger.Fatal("Failed to start catalog refresh scheduler", err)
		}
	}

	var evictionScheduler *scheduler.CartEvictionScheduler
	if cfg.Cart.EvictionCron != "" {
		evictionScheduler = scheduler.NewCartEvictionScheduler(cartService, cfg.Cart.EvictionCron, cfg.Cart.SessionIdleTTL)
		if err := evictionScheduler.Start(); err != nil {
			logger.Fatal("Failed to start cart eviction scheduler", err)
		}
	}

	r := router.NewRouter(
		controller.NewProductController(catalogService),
		controller.NewCollectionController(catalogService),
		controller.NewSearchController(catalogService),
		controller.NewCatalogController(catalogService),
		controller.NewCartController(cartService),
		controller.NewAdminController(catalogService, automationService, dashboardService),
		controller.NewNotificationController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewSessionMiddleware(cfg.Session.Secret, cfg.Session.Expiry, !cfg.Server.IsDevelopment()),
		metricSet.HTTP,
		registry,
		cfg,
	)
	engine := r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           tracing.WrapHandler(engine, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", err)
	}
	if refreshScheduler != nil {
		refreshScheduler.Stop()
	}
	if evictionScheduler != nil {
		evictionScheduler.Stop()
	}
	automationService.Wait()
	hub.Stop()
	if err := tracing.Shutdown(ctx); err != nil {
		logger.Error("Failed to flush traces", err)
	}

	logger.Info("Server stopped successfully")
}
