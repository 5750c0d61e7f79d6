package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/infrastructure/metrics"
)

// Metrics đếm request theo route template (không theo path thật để tránh bùng label)
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.IncHTTPRequest(c.Request.Method, route, c.Writer.Status())
	}
}
