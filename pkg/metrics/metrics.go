// Package metrics holds the Prometheus collectors exported on /metrics.
// Every recorder is nil-safe so components can run without metrics in tests.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Set struct {
	Jobs    *JobMetrics
	Catalog *CatalogMetrics
	Cart    *CartMetrics
	HTTP    *HTTPMetrics
}

// NewSet registers every collector on reg.
func NewSet(reg prometheus.Registerer) *Set {
	return &Set{
		Jobs:    NewJobMetrics(reg),
		Catalog: NewCatalogMetrics(reg),
		Cart:    NewCartMetrics(reg),
		HTTP:    NewHTTPMetrics(reg),
	}
}
