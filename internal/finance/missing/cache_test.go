package missing

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), srv
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "missing", "1", "2025", "6")
	require.NoError(t, err)

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return map[string]int{"totalMissing": 2}, nil
	}

	var first, second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	require.Equal(t, 1, loads)
	require.Equal(t, 2, first["totalMissing"])
	require.Equal(t, first, second)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "missing", "1", "2025", "6")
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.BuildKey(ctx, "missing", "1", "2025", "6")
	require.NoError(t, err)

	require.NotEqual(t, before, after)
}

func TestCacheNilClientPassthrough(t *testing.T) {
	cache := NewCache(nil, 0)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "missing", "1")
	require.NoError(t, err)
	require.Equal(t, "missing:1", key)

	loads := 0
	var out map[string]int
	loader := func(context.Context) (any, error) {
		loads++
		return map[string]int{"n": loads}, nil
	}
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))
	require.Equal(t, 2, loads)
	require.NoError(t, cache.Bump(ctx))
}
