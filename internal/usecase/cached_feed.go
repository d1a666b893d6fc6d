package usecase

import (
	"context"
	"strings"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	pkgcache "CryptoPulse/pkg/cache"
)

// CachedFeed serves recent tickers from cache to absorb request bursts.
type CachedFeed struct {
	next      drepo.PriceFeed
	cache     pkgcache.Service
	ttl       time.Duration
	namespace string
}

// NewCachedFeed wraps next. A nil cache or non-positive ttl disables caching.
func NewCachedFeed(next drepo.PriceFeed, c pkgcache.Service, ttl time.Duration, namespace string) *CachedFeed {
	return &CachedFeed{next: next, cache: c, ttl: ttl, namespace: namespace}
}

var _ drepo.PriceFeed = (*CachedFeed)(nil)

func (f *CachedFeed) CurrentPrice(ctx context.Context, symbol string) (models.CurrentPrice, error) {
	if f.cache == nil || f.ttl <= 0 {
		return f.next.CurrentPrice(ctx, symbol)
	}
	key := pkgcache.GenerateKey("ticker:"+f.namespace, strings.ToLower(symbol))
	p, _, err := pkgcache.GetOrLoad(ctx, f.cache, key, f.ttl, func(ctx context.Context) (models.CurrentPrice, error) {
		return f.next.CurrentPrice(ctx, symbol)
	})
	return p, err
}
