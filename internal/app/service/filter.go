package service

import (
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// PriceRange is an inclusive bound over effective price.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// FilterConfig is the set of user-selected constraints. Empty sets and a nil range do not constrain.
type FilterConfig struct {
	Categories []string    `json:"categories"`
	Types      []string    `json:"types"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
	InStock    bool        `json:"in_stock"`
	Featured   bool        `json:"featured"`
}

// ResolveCollection adjusts cfg for a selected collection. A collection named after a product
// type narrows the type filter to that type, "all" clears it, anything else leaves cfg alone.
func ResolveCollection(products []model.Product, collection string, cfg FilterConfig) FilterConfig {
	if collection == "" {
		return cfg
	}
	for _, p := range products {
		if strings.EqualFold(p.Type, collection) {
			cfg.Types = []string{p.Type}
			return cfg
		}
	}
	if strings.EqualFold(collection, "all") {
		cfg.Types = nil
	}
	return cfg
}

// ApplyFilters narrows products by search term, collection and cfg, in that order, keeping input order.
func ApplyFilters(products []model.Product, cfg FilterConfig, search, collection string) []model.Product {
	cfg = ResolveCollection(products, collection, cfg)
	term := ""
	if strings.TrimSpace(search) != "" {
		term = strings.ToLower(search)
	}

	categories := toSet(cfg.Categories)
	types := toSet(cfg.Types)

	results := make([]model.Product, 0, len(products))
	for _, p := range products {
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		if len(types) > 0 {
			if _, ok := types[p.Type]; !ok {
				continue
			}
		}
		if cfg.PriceRange != nil && !cfg.PriceRange.Contains(p.EffectivePrice()) {
			continue
		}
		if cfg.InStock && !p.InStock() {
			continue
		}
		if cfg.Featured && !p.Featured {
			continue
		}
		results = append(results, p)
	}
	return results
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// FilterOptions is what a filter panel needs to render its choices.
type FilterOptions struct {
	Categories      []string   `json:"categories"`
	Types           []string   `json:"types"`
	PriceRange      PriceRange `json:"price_range"`
	InStockCount    int        `json:"in_stock_count"`
	OutOfStockCount int        `json:"out_of_stock_count"`
}

// BuildFilterOptions collects distinct categories and types in first-seen order and
// the floor/ceil bounds of effective prices.
func BuildFilterOptions(products []model.Product) FilterOptions {
	opts := FilterOptions{
		Categories: make([]string, 0),
		Types:      make([]string, 0),
		PriceRange: PriceRange{Min: decimal.Zero, Max: decimal.Zero},
	}
	seenCategories := make(map[string]struct{})
	seenTypes := make(map[string]struct{})

	for i, p := range products {
		if _, ok := seenCategories[p.Category]; !ok {
			seenCategories[p.Category] = struct{}{}
			opts.Categories = append(opts.Categories, p.Category)
		}
		if _, ok := seenTypes[p.Type]; !ok {
			seenTypes[p.Type] = struct{}{}
			opts.Types = append(opts.Types, p.Type)
		}

		price := p.EffectivePrice()
		if i == 0 || price.LessThan(opts.PriceRange.Min) {
			opts.PriceRange.Min = price
		}
		if i == 0 || price.GreaterThan(opts.PriceRange.Max) {
			opts.PriceRange.Max = price
		}

		if p.InStock() {
			opts.InStockCount++
		} else {
			opts.OutOfStockCount++
		}
	}

	opts.PriceRange.Min = opts.PriceRange.Min.Floor()
	opts.PriceRange.Max = opts.PriceRange.Max.Ceil()
	return opts
}
