package user

import (
	"context"
	"math"

	"user-service/internal/domain"
)

// Pageable 分页所需的存储能力
type Pageable interface {
	Find(ctx context.Context, q domain.Query, skip, limit int) ([]domain.User, error)
	Count(ctx context.Context, q domain.Query) (int64, error)
}

// Paginate offset 是页号，跳过 offset*limit 条；不做参数校验，默认值由调用方提供。
// count 与 find 之间的数据变化不做保护
func Paginate(ctx context.Context, store Pageable, q domain.Query, offset, limit int) (domain.Page[domain.User], error) {
	total, err := store.Count(ctx, q)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	// 窗口超出可寻址范围时必然为空
	if limit > 0 && offset > math.MaxInt/limit {
		return domain.Page[domain.User]{Items: []domain.User{}, Total: total, Offset: offset, Limit: limit}, nil
	}
	items, err := store.Find(ctx, q, offset*limit, limit)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.Page[domain.User]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}
