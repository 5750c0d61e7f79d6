package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/shared"
	"storefront-checkout/internal/shared/utils"
)

// ClientIPMiddleware đưa IP client vào gin context và request context,
// upstream client gửi kèm qua X-Forwarded-For.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set(shared.CtxKeyClientIP, clientIP)
		c.Request = c.Request.WithContext(shared.WithClientIP(c.Request.Context(), clientIP))

		c.Next()
	}
}
