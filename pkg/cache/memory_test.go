package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestMemoryCacheStructAndString(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "q", quote{ID: "bitcoin", Price: 62453.12}, time.Minute))
	require.NoError(t, mc.Set(ctx, "s", "plain", time.Minute))

	var q quote
	require.NoError(t, mc.Get(ctx, "q", &q))
	assert.Equal(t, quote{ID: "bitcoin", Price: 62453.12}, q)

	var s string
	require.NoError(t, mc.Get(ctx, "s", &s))
	assert.Equal(t, "plain", s)

	err := mc.Get(ctx, "missing", &s)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", "v", 10*time.Millisecond))
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	time.Sleep(time.Millisecond)

	var s string
	require.NoError(t, mc.Get(ctx, "a", &s))
	time.Sleep(time.Millisecond)

	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &s), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &s))
}

func TestGetOrLoadCachesOnlySuccess(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	calls := 0
	load := func(context.Context) ([]quote, error) {
		calls++
		return []quote{{ID: "eth", Price: 3124.87}}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrLoad(ctx, mc, "list", time.Minute, load)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, calls)

	_, err := GetOrLoad(ctx, mc, "broken", time.Minute, func(context.Context) (int, error) {
		return 0, errors.New("upstream down")
	})
	require.Error(t, err)
	ok, _ := mc.Exists(ctx, "broken")
	assert.False(t, ok)
}

func TestLayeredCacheFillsL1FromL2(t *testing.T) {
	ctx := context.Background()
	l2 := NewMemoryCache()
	lc := NewLayeredCache(l2, WithLayeredMemoryTTL(time.Minute))
	defer lc.Close()

	require.NoError(t, l2.Set(ctx, "k", "from-l2", time.Minute))

	var s string
	require.NoError(t, lc.Get(ctx, "k", &s))
	assert.Equal(t, "from-l2", s)

	require.NoError(t, l2.Delete(ctx, "k"))
	s = ""
	require.NoError(t, lc.Get(ctx, "k", &s))
	assert.Equal(t, "from-l2", s)
}

func TestMemoryCachePersistentKeepsEverything(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryPersistent())
	defer mc.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, mc.Set(ctx, GenerateKey("user", string(rune('a'+i))), i, 0))
	}
	assert.Equal(t, 10, mc.Len())

	var v int
	require.NoError(t, mc.Get(ctx, GenerateKey("user", "a"), &v))
	assert.Equal(t, 0, v)

	require.NoError(t, mc.Set(ctx, "short", 1, time.Nanosecond))
	time.Sleep(time.Millisecond)
	ok, err := mc.Exists(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "explicit expiration still applies")
}
