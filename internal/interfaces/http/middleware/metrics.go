package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/onconet/healthai/internal/infrastructure/monitoring/prometheus"
)

// Metrics returns middleware that records request counts and latencies.  The
// path label uses the route template (e.g. /api/v1/workflows/:workflow), not
// the raw URL, to keep cardinality bounded.
func Metrics(m *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

//Personal.AI order the ending
