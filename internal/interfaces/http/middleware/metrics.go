package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// ErrorCodeKey holds the code of an error envelope written by a handler
const ErrorCodeKey = "error_code"

// Metrics records request count, latency, in-flight requests and error codes
// in the Prometheus registry. Routes are labelled by pattern to bound cardinality.
func Metrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		c.Next()

		route := c.FullPath()
		m.Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		if code := c.GetString(ErrorCodeKey); code != "" {
			m.ObserveError(route, code)
		}
	}
}
