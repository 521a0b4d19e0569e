package metrics

import "github.com/prometheus/client_golang/prometheus"

type CartMetrics struct {
	operations *prometheus.CounterVec
	corrupt    prometheus.Counter
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"operation"})
	corrupt := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_corrupt_total",
		Help: "Persisted carts discarded because they could not be decoded.",
	})
	reg.MustRegister(operations, corrupt)
	return &CartMetrics{operations: operations, corrupt: corrupt}
}

func (m *CartMetrics) IncOperation(operation string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *CartMetrics) IncCorrupt() {
	if m == nil || m.corrupt == nil {
		return
	}
	m.corrupt.Inc()
}
