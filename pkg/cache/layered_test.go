package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRemote stands in for Redis in layered tests.
type memoryRemote struct {
	*MemoryCache
	ttl  time.Duration
	gets int
}

func (r *memoryRemote) Get(ctx context.Context, key string, dest interface{}) error {
	r.gets++
	return r.MemoryCache.Get(ctx, key, dest)
}

func (r *memoryRemote) TTL(context.Context, string) (time.Duration, error) {
	return r.ttl, nil
}

func TestLayeredCacheBackfillsMemory(t *testing.T) {
	ctx := context.Background()
	remote := &memoryRemote{MemoryCache: NewMemoryCache(), ttl: time.Minute}
	lc := newLayered(remote)
	defer lc.Close()

	require.NoError(t, remote.Set(ctx, "k", ticker{Symbol: "SOLUSDT", Price: 150}, time.Minute))

	var got ticker
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, 150.0, got.Price)
	assert.Equal(t, 1, remote.gets)

	got = ticker{}
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "SOLUSDT", got.Symbol)
	assert.Equal(t, 1, remote.gets, "second read served from memory")
}

func TestLayeredCacheWriteThroughAndDelete(t *testing.T) {
	ctx := context.Background()
	remote := &memoryRemote{MemoryCache: NewMemoryCache(), ttl: time.Minute}
	lc := newLayered(remote)
	defer lc.Close()

	require.NoError(t, lc.Set(ctx, "k", "v", time.Minute))
	ok, err := remote.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, lc.Delete(ctx, "k"))
	var s string
	assert.ErrorIs(t, lc.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestLayeredCacheBackfillsStrings(t *testing.T) {
	ctx := context.Background()
	remote := &memoryRemote{MemoryCache: NewMemoryCache(), ttl: time.Minute}
	lc := newLayered(remote)
	defer lc.Close()

	require.NoError(t, remote.Set(ctx, "k", "plain", time.Minute))

	var s string
	require.NoError(t, lc.Get(ctx, "k", &s))
	s = ""
	require.NoError(t, lc.Get(ctx, "k", &s))
	assert.Equal(t, "plain", s)
}
