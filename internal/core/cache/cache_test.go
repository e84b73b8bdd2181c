package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func counting(calls *int32, v item, err error) Loader[item] {
	return func(context.Context) (*item, error) {
		atomic.AddInt32(calls, 1)
		if err != nil {
			return nil, err
		}
		out := v
		return &out, nil
	}
}

// 三种实现共享的行为约束
func storeContract(t *testing.T, s Store[item]) {
	ctx := context.Background()
	var calls int32

	got, err := s.GetOrLoad(ctx, "a", counting(&calls, item{Name: "alice"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	require.NoError(t, s.Evict(ctx, "a"))
	require.NoError(t, s.Evict(ctx, "never-set"))

	got, err = s.GetOrLoad(ctx, "a", counting(&calls, item{Name: "alice2"}, nil))
	require.NoError(t, err)
	assert.Equal(t, "alice2", got.Name, "evicted key is reloaded")

	boom := errors.New("not found")
	_, err = s.GetOrLoad(ctx, "b", counting(&calls, item{}, boom))
	assert.ErrorIs(t, err, boom)
}

func TestNoop(t *testing.T) {
	storeContract(t, Noop[item]{})

	var calls int32
	s := Noop[item]{}
	for i := 0; i < 3; i++ {
		_, _ = s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
	}
	assert.EqualValues(t, 3, calls)
}

func TestMemory(t *testing.T) {
	storeContract(t, NewMemory[item]("test"))
}

func TestMemoryHitsAfterFirstLoad(t *testing.T) {
	s := NewMemory[item]("test")
	var calls int32
	for i := 0; i < 3; i++ {
		got, err := s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
		require.NoError(t, err)
		assert.Equal(t, "x", got.Name)
	}
	assert.EqualValues(t, 1, calls)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryErrorNotCached(t *testing.T) {
	s := NewMemory[item]("test")
	var calls int32
	boom := errors.New("boom")
	_, _ = s.GetOrLoad(context.Background(), "k", counting(&calls, item{}, boom))
	_, _ = s.GetOrLoad(context.Background(), "k", counting(&calls, item{}, boom))
	assert.EqualValues(t, 2, calls)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryReturnsCopies(t *testing.T) {
	s := NewMemory[item]("test")
	var calls int32
	a, _ := s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
	a.Name = "mutated"
	b, _ := s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
	assert.Equal(t, "x", b.Name)
}

func TestMemoryConcurrent(t *testing.T) {
	s := NewMemory[item]("test")
	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
			_ = s.Evict(context.Background(), "other")
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRedis(t *testing.T) {
	_, c := newMiniRedis(t)
	require.NoError(t, c.Ping(context.Background()))
	storeContract(t, NewRedis[item](c, "test", "item:", 0))
}

func TestRedisHitsAndPrefix(t *testing.T) {
	mr, c := newMiniRedis(t)
	s := NewRedis[item](c, "test", "item:", 0)
	var calls int32

	for i := 0; i < 3; i++ {
		got, err := s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
		require.NoError(t, err)
		assert.Equal(t, "x", got.Name)
	}
	assert.EqualValues(t, 1, calls)

	raw, err := mr.Get("item:k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, raw)
	assert.Equal(t, time.Duration(0), mr.TTL("item:k"))

	require.NoError(t, s.Evict(context.Background(), "k"))
	assert.False(t, mr.Exists("item:k"))
}

func TestRedisTTL(t *testing.T) {
	mr, c := newMiniRedis(t)
	s := NewRedis[item](c, "test", "item:", time.Minute)
	var calls int32
	_, err := s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = s.GetOrLoad(context.Background(), "k", counting(&calls, item{Name: "x"}, nil))
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls)
}
