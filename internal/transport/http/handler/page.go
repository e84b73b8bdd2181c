package handler

import "user-service/internal/domain"

type pageable struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	Offset     int64 `json:"offset"`
}

// pageBody 列表响应体，字段与常见 Page JSON 结构保持一致
type pageBody[T any] struct {
	Content          []T      `json:"content"`
	Pageable         pageable `json:"pageable"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	Number           int      `json:"number"`
	Size             int      `json:"size"`
	NumberOfElements int      `json:"numberOfElements"`
	First            bool     `json:"first"`
	Last             bool     `json:"last"`
	Empty            bool     `json:"empty"`
}

func newPageBody[T any](p domain.Page[T]) pageBody[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return pageBody[T]{
		Content: items,
		Pageable: pageable{
			PageNumber: p.Offset,
			PageSize:   p.Limit,
			Offset:     int64(p.Offset) * int64(p.Limit),
		},
		TotalElements:    p.Total,
		TotalPages:       p.TotalPages(),
		Number:           p.Offset,
		Size:             p.Limit,
		NumberOfElements: len(items),
		First:            p.IsFirst(),
		Last:             p.IsLast(),
		Empty:            len(items) == 0,
	}
}
