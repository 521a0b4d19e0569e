package metrics

import "github.com/prometheus/client_golang/prometheus"

// CatalogMetrics tracks catalog loads and the size of the active catalog.
type CatalogMetrics struct {
	loads       *prometheus.CounterVec
	products    prometheus.Gauge
	collections prometheus.Gauge
}

func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_loads_total",
		Help: "Catalog loads by source and outcome (loaded or fallback).",
	}, []string{"source", "outcome"})
	products := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Products in the active catalog.",
	})
	collections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_collections",
		Help: "Collections in the active catalog.",
	})
	reg.MustRegister(loads, products, collections)
	return &CatalogMetrics{loads: loads, products: products, collections: collections}
}

// ObserveLoad counts one load attempt and records the resulting catalog size.
func (m *CatalogMetrics) ObserveLoad(source, outcome string, products, collections int) {
	if m == nil || m.loads == nil {
		return
	}
	m.loads.WithLabelValues(normalizeLabel(source), normalizeLabel(outcome)).Inc()
	m.products.Set(float64(products))
	m.collections.Set(float64(collections))
}
