package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
)

// CatalogStatus describes where the active catalog came from.
type CatalogStatus struct {
	Source          string    `json:"source"`
	UsingMock       bool      `json:"using_mock"`
	Loading         bool      `json:"is_loading"`
	Error           string    `json:"error,omitempty"`
	ProductCount    int       `json:"product_count"`
	CollectionCount int       `json:"collection_count"`
	LoadedAt        time.Time `json:"loaded_at"`
	Warnings        []string  `json:"warnings,omitempty"`
}

// CatalogSnapshot is an immutable view of the catalog at one point in time.
type CatalogSnapshot struct {
	Products    []model.Product
	Collections []model.Collection
	Status      CatalogStatus

	productIndex map[string]int
}

// FindProduct returns a copy of the product with the given id.
func (s *CatalogSnapshot) FindProduct(id string) (model.Product, bool) {
	i, ok := s.productIndex[id]
	if !ok {
		return model.Product{}, false
	}
	return s.Products[i], true
}

// FindCollection looks a collection up by id, then by slug, then by case-insensitive name.
func (s *CatalogSnapshot) FindCollection(key string) (model.Collection, bool) {
	for _, c := range s.Collections {
		if c.ID == key {
			return c, true
		}
	}
	lower := strings.ToLower(key)
	for _, c := range s.Collections {
		if c.Slug == lower {
			return c, true
		}
	}
	for _, c := range s.Collections {
		if strings.EqualFold(c.Name, key) {
			return c, true
		}
	}
	return model.Collection{}, false
}

// CatalogRepository holds the active catalog in memory. Readers get whole snapshots;
// writers swap in a new snapshot atomically.
type CatalogRepository interface {
	Snapshot() *CatalogSnapshot
	Replace(products []model.Product, collections []model.Collection, status CatalogStatus) *CatalogSnapshot
	SetLoading(loading bool)
}

type catalogRepository struct {
	mu       sync.RWMutex
	snapshot *CatalogSnapshot
}

func NewCatalogRepository() CatalogRepository {
	return &catalogRepository{
		snapshot: &CatalogSnapshot{
			Products:     []model.Product{},
			Collections:  []model.Collection{},
			productIndex: map[string]int{},
		},
	}
}

func (r *catalogRepository) Snapshot() *CatalogSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *catalogRepository) Replace(products []model.Product, collections []model.Collection, status CatalogStatus) *CatalogSnapshot {
	index := make(map[string]int, len(products))
	for i, p := range products {
		if _, exists := index[p.ID]; !exists {
			index[p.ID] = i
		}
	}
	status.ProductCount = len(products)
	status.CollectionCount = len(collections)
	status.Loading = false

	next := &CatalogSnapshot{
		Products:     products,
		Collections:  collections,
		Status:       status,
		productIndex: index,
	}

	r.mu.Lock()
	r.snapshot = next
	r.mu.Unlock()
	return next
}

func (r *catalogRepository) SetLoading(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *r.snapshot
	next.Status.Loading = loading
	r.snapshot = &next
}
