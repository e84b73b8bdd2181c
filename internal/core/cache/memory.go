package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"user-service/internal/core/metrics"
)

// Memory 进程内缓存：无 TTL、无容量上限，仅单实例有效
type Memory[T any] struct {
	name string
	mu   sync.RWMutex
	m    map[string]T
	sf   singleflight.Group
}

func NewMemory[T any](name string) *Memory[T] {
	return &Memory[T]{name: name, m: make(map[string]T)}
}

func (c *Memory[T]) GetOrLoad(ctx context.Context, key string, load Loader[T]) (*T, error) {
	c.mu.RLock()
	v, ok := c.m[key]
	c.mu.RUnlock()
	if ok {
		metrics.CacheRequests.WithLabelValues(c.name, "hit").Inc()
		return &v, nil
	}
	metrics.CacheRequests.WithLabelValues(c.name, "miss").Inc()

	res, err, _ := c.sf.Do(key, func() (any, error) {
		p, err := load(ctx)
		if err != nil || p == nil {
			return p, err
		}
		c.mu.Lock()
		c.m[key] = *p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p, _ := res.(*T)
	if p == nil {
		return nil, nil
	}
	out := *p // 调用方各自持有副本
	return &out, nil
}

func (c *Memory[T]) Evict(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}

func (c *Memory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
