package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoPulse/internal/domain/models"
	pkgcache "CryptoPulse/pkg/cache"
)

func TestCachedFeedServesRepeatsFromCache(t *testing.T) {
	feed := &fakeFeed{price: btc(2)}
	mc := pkgcache.NewMemoryCache()
	defer mc.Close()

	f := NewCachedFeed(feed, mc, time.Minute, "futures")
	ctx := context.Background()

	p1, err := f.CurrentPrice(ctx, "btcusdt")
	require.NoError(t, err)
	p2, err := f.CurrentPrice(ctx, "BTCUSDT")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, 1, feed.calls)
}

func TestCachedFeedDoesNotCacheErrors(t *testing.T) {
	feed := &fakeFeed{err: models.ErrPriceUnavailable}
	mc := pkgcache.NewMemoryCache()
	defer mc.Close()

	f := NewCachedFeed(feed, mc, time.Minute, "futures")
	ctx := context.Background()

	_, err := f.CurrentPrice(ctx, "btcusdt")
	assert.True(t, errors.Is(err, models.ErrPriceUnavailable))
	_, _ = f.CurrentPrice(ctx, "btcusdt")
	assert.Equal(t, 2, feed.calls)
}

func TestCachedFeedDisabled(t *testing.T) {
	feed := &fakeFeed{price: btc(0)}
	f := NewCachedFeed(feed, nil, time.Minute, "futures")

	_, _ = f.CurrentPrice(context.Background(), "btcusdt")
	_, _ = f.CurrentPrice(context.Background(), "btcusdt")
	assert.Equal(t, 2, feed.calls)
}
