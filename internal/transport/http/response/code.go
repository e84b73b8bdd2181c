package response

import (
	"context"
	"errors"
	"net/http"

	"user-service/internal/domain"
)

// kindStatus 业务错误类型 → HTTP 状态码，未列出的一律 500
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:    http.StatusBadRequest,
	domain.KindAlreadyExists: http.StatusUnprocessableEntity,
	domain.KindNotFound:      http.StatusNotFound,
	domain.KindSerialization: http.StatusInternalServerError,
	domain.KindUnexpected:    http.StatusInternalServerError,
}

func StatusOf(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	if s, ok := kindStatus[domain.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
