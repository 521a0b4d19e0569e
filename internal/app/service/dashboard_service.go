package service

import (
	"context"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalProducts      int                      `json:"total_products"`
	TotalCollections   int                      `json:"total_collections"`
	FeaturedProducts   int                      `json:"featured_products"`
	OutOfStockProducts int                      `json:"out_of_stock_products"`
	InventoryValue     decimal.Decimal          `json:"inventory_value"`
	Catalog            repository.CatalogStatus `json:"catalog"`
	JobKinds           []model.JobKind          `json:"job_kinds"`
	RecentJobs         []model.AutomationJob    `json:"recent_jobs"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	catalog     CatalogService
	automations AutomationService
}

func NewDashboardService(catalogService CatalogService, automationService AutomationService) DashboardService {
	return &dashboardService{catalog: catalogService, automations: automationService}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	snap := s.catalog.Snapshot()

	stats := ComputeStats(snap.Products, snap.Collections)
	stats.Catalog = snap.Status
	stats.JobKinds = model.JobKinds

	jobs, err := s.automations.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	stats.RecentJobs = jobs
	return stats, nil
}

// ComputeStats derives the catalog totals shown on the dashboard.
// Inventory value is the sum of effective price times stock.
func ComputeStats(products []model.Product, collections []model.Collection) *DashboardStats {
	stats := &DashboardStats{
		TotalProducts:    len(products),
		TotalCollections: len(collections),
		InventoryValue:   decimal.Zero,
	}
	for _, p := range products {
		if p.Featured {
			stats.FeaturedProducts++
		}
		if !p.InStock() {
			stats.OutOfStockProducts++
		}
		stats.InventoryValue = stats.InventoryValue.Add(p.EffectivePrice().Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return stats
}
