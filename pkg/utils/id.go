package utils

import "github.com/google/uuid"

// NewID 生成按时间递增的 UUIDv7，按 ID 排序即按创建顺序
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
