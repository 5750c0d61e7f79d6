package middleware

import (
	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/shared"
	"storefront-checkout/internal/shared/response"
	"storefront-checkout/pkg/jwt"
)

// AdminMiddleware checks if user has admin role (chạy sau AuthMiddleware)
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(shared.CtxKeyRole) != jwt.RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			return
		}
		c.Next()
	}
}
