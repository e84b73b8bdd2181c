package cache

import (
	"context"
	"encoding/json"
	"time"
)

func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load Loader[T],
) (*T, bool, error) {
	b, hit, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			// 回源错误（如 NotFound）不做负缓存
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, hit, err
	}
	if string(b) == "null" {
		return nil, hit, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, hit, e
	}
	return &out, hit, nil
}
