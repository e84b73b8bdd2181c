package cache

import "context"

// Loader 缓存未命中时回源
type Loader[T any] func(ctx context.Context) (*T, error)

// Store 按 key 的 get-or-load 缓存；Loader 返回的错误不缓存
type Store[T any] interface {
	GetOrLoad(ctx context.Context, key string, load Loader[T]) (*T, error)
	// Evict 无论 key 是否存在都删除
	Evict(ctx context.Context, key string) error
}

// Noop 不缓存，每次都回源
type Noop[T any] struct{}

func (Noop[T]) GetOrLoad(ctx context.Context, _ string, load Loader[T]) (*T, error) {
	return load(ctx)
}

func (Noop[T]) Evict(context.Context, string) error { return nil }
