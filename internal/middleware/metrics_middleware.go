package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/pkg/metrics"
)

// MetricsMiddleware records request counts and latency by route template.
func MetricsMiddleware(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
