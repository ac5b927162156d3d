package middleware

import (
	"time"

	"go-leave/internal/shared/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records the latency and status of every request under its route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
