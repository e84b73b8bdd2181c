package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"user-service/internal/core/logger"
)

const KeyRequestID = "X-Request-ID"

// RequestID 生成/透传请求 ID，并把带请求字段的 logger 放进 request context
func RequestID(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)

		l := base.With(
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		if q := c.Request.URL.Query(); len(q) > 0 {
			l = l.With(zap.Any("query", maskQuery(q)))
		}
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), l))
		c.Next()
	}
}
