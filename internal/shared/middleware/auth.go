package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/shared"
	"storefront-checkout/internal/shared/response"
	"storefront-checkout/pkg/jwt"
	"storefront-checkout/pkg/logger"
)

// TokenValidator - *jwt.Manager
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware - xác thực JWT do storefront API phát hành.
// Token gốc được giữ lại trong request context để forward lên upstream.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		// 2. "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		// 3. Verify
		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			logger.Debug("reject access token", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			response.Unauthorized(c, "invalid token")
			return
		}
		if claims.UserID == "" {
			response.Unauthorized(c, "invalid user ID in token")
			return
		}

		// 4. Set vào gin context + request context
		c.Set(shared.CtxKeyUserID, claims.UserID)
		c.Set(shared.CtxKeyRole, claims.Role)
		c.Set(shared.CtxKeyAccessToken, token)
		c.Request = c.Request.WithContext(shared.WithAccessToken(c.Request.Context(), token))

		c.Next()
	}
}
