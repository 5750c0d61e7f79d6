package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-checkout/internal/shared"
)

const RequestIDHeader = "X-Request-ID"

// RequestID nhận X-Request-ID từ client/proxy hoặc sinh mới,
// trả lại trong response header và forward lên upstream.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		c.Set(shared.CtxKeyRequestID, id)
		c.Request = c.Request.WithContext(shared.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}
