package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"user-service/internal/core/metrics"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad 先读缓存，未命中时 singleflight 合并回源；ttl 为 0 表示不过期
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, true, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		// 写缓存失败不影响本次结果
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	if err := c.RDB.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// Redis 基于 JSON 的 Store[T] 实现，key 统一加前缀
type Redis[T any] struct {
	c      *Cache
	name   string
	prefix string
	ttl    time.Duration
}

func NewRedis[T any](c *Cache, name, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{c: c, name: name, prefix: prefix, ttl: ttl}
}

func (r *Redis[T]) GetOrLoad(ctx context.Context, key string, load Loader[T]) (*T, error) {
	v, hit, err := GetOrLoadJSON(r.c, ctx, r.prefix+key, r.ttl, load)
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheRequests.WithLabelValues(r.name, result).Inc()
	return v, err
}

func (r *Redis[T]) Evict(ctx context.Context, key string) error {
	return r.c.Del(ctx, r.prefix+key)
}
