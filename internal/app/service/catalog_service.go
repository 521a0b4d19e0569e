package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/catalog"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/metrics"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCollectionNotFound = errors.New("collection not found")
)

// LoadErrorMessage is reported in the catalog status whenever bundled data replaces a failed load.
const LoadErrorMessage = "Failed to load product and collection data. Using mock data instead."

const SourceFallback = "fallback"

type CatalogPaths struct {
	Products    string
	Collections string
}

// ProductQuery carries the product list request: navigation state plus filter choices.
type ProductQuery struct {
	Collection string
	Search     string
	Filters    FilterConfig
}

type ProductListResult struct {
	Products   []model.Product   `json:"products"`
	Count      int               `json:"count"`
	Collection *model.Collection `json:"collection"`
	Filters    FilterConfig      `json:"filters"`
}

type CatalogService interface {
	Load(ctx context.Context) *repository.CatalogSnapshot
	LoadFallback(reason string) (*repository.CatalogSnapshot, error)
	Replace(products []model.Product, collections []model.Collection, source string) *repository.CatalogSnapshot
	Snapshot() *repository.CatalogSnapshot
	Status() repository.CatalogStatus
	ListProducts(query ProductQuery) ProductListResult
	GetProduct(id string) (*model.Product, error)
	ListCollections(featuredOnly bool) []model.Collection
	GetCollection(key string) (*model.Collection, error)
	Search(term string) []model.Product
	FilterOptions() FilterOptions
}

type catalogService struct {
	repo    repository.CatalogRepository
	loader  *catalog.Loader
	paths   CatalogPaths
	metrics *metrics.CatalogMetrics
}

func NewCatalogService(
	repo repository.CatalogRepository,
	loader *catalog.Loader,
	paths CatalogPaths,
	catalogMetrics *metrics.CatalogMetrics,
) CatalogService {
	return &catalogService{
		repo:    repo,
		loader:  loader,
		paths:   paths,
		metrics: catalogMetrics,
	}
}

// Load runs the startup sequence: products first, then collections only when products mapped
// to a non-empty list. Any failure leaves the bundled catalog active; Load itself never fails.
func (s *catalogService) Load(ctx context.Context) *repository.CatalogSnapshot {
	source := s.loader.SourceName()
	logger.Info("Loading catalog", map[string]interface{}{
		"source":      source,
		"products":    s.paths.Products,
		"collections": s.paths.Collections,
	})
	s.repo.SetLoading(true)

	products := catalog.MapProducts(s.loader.FetchRows(ctx, s.paths.Products))
	if len(products) == 0 {
		logger.Warn("Products file yielded no rows, using bundled catalog", map[string]interface{}{
			"source": source,
			"file":   s.paths.Products,
		})
		snap, err := s.LoadFallback(LoadErrorMessage)
		if err != nil {
			logger.Error("Failed to load bundled catalog", err)
			s.repo.SetLoading(false)
			return s.repo.Snapshot()
		}
		s.metrics.ObserveLoad(source, "fallback", len(snap.Products), len(snap.Collections))
		return snap
	}

	var collections []model.Collection
	collectionRows := s.loader.FetchRows(ctx, s.paths.Collections)
	if len(collectionRows) > 0 {
		collections = catalog.MapCollections(collectionRows, products)
	} else {
		logger.Warn("Collections file yielded no rows, keeping bundled collections", map[string]interface{}{
			"source": source,
			"file":   s.paths.Collections,
		})
		collections = s.bundledCollectionsFor(products)
	}

	snap := s.replace(products, collections, source, false, "")
	s.metrics.ObserveLoad(source, "loaded", len(snap.Products), len(snap.Collections))
	return snap
}

// bundledCollectionsFor re-resolves the bundled collections against a loaded product list,
// so they never reference products that are not in the catalog.
func (s *catalogService) bundledCollectionsFor(products []model.Product) []model.Collection {
	_, collections, err := catalog.Fallback()
	if err != nil {
		logger.Error("Failed to load bundled collections", err)
		return []model.Collection{}
	}
	for i := range collections {
		collections[i].Products = catalog.MatchCollectionProducts(collections[i].Name, collections[i].Products, products)
	}
	return collections
}

func (s *catalogService) LoadFallback(reason string) (*repository.CatalogSnapshot, error) {
	products, collections, err := catalog.Fallback()
	if err != nil {
		return nil, err
	}
	return s.replace(products, collections, SourceFallback, true, reason), nil
}

func (s *catalogService) Replace(products []model.Product, collections []model.Collection, source string) *repository.CatalogSnapshot {
	return s.replace(products, collections, source, false, "")
}

func (s *catalogService) replace(products []model.Product, collections []model.Collection, source string, usingMock bool, loadErr string) *repository.CatalogSnapshot {
	warnings := catalog.ValidateProducts(products)
	for _, w := range warnings {
		logger.Warn("Catalog validation warning", map[string]interface{}{
			"warning": w,
		})
	}

	snap := s.repo.Replace(products, collections, repository.CatalogStatus{
		Source:    source,
		UsingMock: usingMock,
		Error:     loadErr,
		LoadedAt:  time.Now(),
		Warnings:  warnings,
	})

	logger.Info("Catalog replaced", map[string]interface{}{
		"source":      source,
		"products":    len(products),
		"collections": len(collections),
		"warnings":    len(warnings),
		"using_mock":  usingMock,
	})
	return snap
}

func (s *catalogService) Snapshot() *repository.CatalogSnapshot {
	return s.repo.Snapshot()
}

func (s *catalogService) Status() repository.CatalogStatus {
	return s.repo.Snapshot().Status
}

func (s *catalogService) ListProducts(query ProductQuery) ProductListResult {
	snap := s.repo.Snapshot()

	filters := ResolveCollection(snap.Products, query.Collection, query.Filters)
	products := ApplyFilters(snap.Products, filters, query.Search, query.Collection)

	var banner *model.Collection
	if query.Collection != "" {
		if c, ok := findCollectionBySlug(snap.Collections, query.Collection); ok {
			banner = &c
		}
	}

	logger.Debug("Products filtered", map[string]interface{}{
		"collection": query.Collection,
		"search":     query.Search,
		"count":      len(products),
	})
	return ProductListResult{
		Products:   products,
		Count:      len(products),
		Collection: banner,
		Filters:    filters,
	}
}

// findCollectionBySlug matches the navigation parameter against slugified collection names.
func findCollectionBySlug(collections []model.Collection, param string) (model.Collection, bool) {
	slug := strings.ToLower(param)
	for _, c := range collections {
		if model.Slugify(c.Name) == slug {
			return c, true
		}
	}
	return model.Collection{}, false
}

func (s *catalogService) GetProduct(id string) (*model.Product, error) {
	p, ok := s.repo.Snapshot().FindProduct(id)
	if !ok {
		logger.Warn("Product not found", map[string]interface{}{
			"product_id": id,
		})
		return nil, ErrProductNotFound
	}
	return &p, nil
}

func (s *catalogService) ListCollections(featuredOnly bool) []model.Collection {
	collections := s.repo.Snapshot().Collections
	if !featuredOnly {
		return collections
	}
	featured := make([]model.Collection, 0, len(collections))
	for _, c := range collections {
		if c.Featured {
			featured = append(featured, c)
		}
	}
	return featured
}

func (s *catalogService) GetCollection(key string) (*model.Collection, error) {
	c, ok := s.repo.Snapshot().FindCollection(key)
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return &c, nil
}

func (s *catalogService) Search(term string) []model.Product {
	return Search(s.repo.Snapshot().Products, term)
}

func (s *catalogService) FilterOptions() FilterOptions {
	return BuildFilterOptions(s.repo.Snapshot().Products)
}
