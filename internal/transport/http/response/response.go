package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-service/internal/core/logger"
	"user-service/internal/domain"
)

// ErrorBody 错误响应体；Description 为字符串或 字段→消息 的 map
type ErrorBody struct {
	Description any `json:"description"`
}

// Fail 按错误类型写出状态码与错误体，并记录日志（5xx 为 error，其余为 info）
func Fail(c *gin.Context, err error) {
	status := StatusOf(err)
	l := logger.FromContext(c.Request.Context(), nil)
	if status >= http.StatusInternalServerError {
		l.Error("error on process the request", zap.String("uri", c.Request.RequestURI), zap.Error(err))
	} else {
		l.Info("request rejected", zap.String("uri", c.Request.RequestURI), zap.Int("status", status), zap.Error(err))
	}

	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindValidation && len(de.Fields) > 0 {
		c.AbortWithStatusJSON(status, ErrorBody{Description: de.Fields})
		return
	}
	c.AbortWithStatusJSON(status, ErrorBody{Description: err.Error()})
}

// Abort 直接以给定状态码与描述中止（中间件用）
func Abort(c *gin.Context, status int, description string) {
	c.AbortWithStatusJSON(status, ErrorBody{Description: description})
}
