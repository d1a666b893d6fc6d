package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheGetSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache(WithClock(func() time.Time { return now }))

	_, ok, err := c.GetBytes(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetBytes(ctx, "a", []byte("audio"), time.Minute))
	b, ok, err := c.GetBytes(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("audio"), b)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.GetBytes(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewTTLCache()
	v := []byte("abc")
	require.NoError(t, c.SetBytes(ctx, "k", v, 0))
	v[0] = 'x'

	b, ok, _ := c.GetBytes(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), b)
}

func TestTTLCacheBounded(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache(WithMaxEntries(2), WithClock(func() time.Time { return now }))

	require.NoError(t, c.SetBytes(ctx, "soon", []byte("1"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "late", []byte("2"), time.Hour))
	require.NoError(t, c.SetBytes(ctx, "new", []byte("3"), time.Hour))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.GetBytes(ctx, "soon")
	assert.False(t, ok)
	_, ok, _ = c.GetBytes(ctx, "late")
	assert.True(t, ok)
	_, ok, _ = c.GetBytes(ctx, "new")
	assert.True(t, ok)
}
