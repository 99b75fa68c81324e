package middleware

import (
	"time"

	"github.com/erpsuite/finance/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics returns a middleware recording request counts and latency.
// The route pattern is used as the path label to keep cardinality low.
func HTTPMetrics(metrics *telemetry.Metrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
