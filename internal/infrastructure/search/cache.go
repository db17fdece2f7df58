package search

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

// CachedProvider decorates a SearchProvider with an in-memory TTL
// cache, keyed by query and count. Repeated analyses of similar claims
// within the TTL skip the network round trip.
type CachedProvider struct {
	provider ports.SearchProvider
	cache    *cache.Cache
}

// NewCachedProvider wraps the given provider with a result cache.
func NewCachedProvider(provider ports.SearchProvider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache.New(ttl, 2*ttl),
	}
}

// Name identifies the underlying provider.
func (c *CachedProvider) Name() string {
	return c.provider.Name()
}

// Search returns cached results when available, otherwise delegates to
// the underlying provider. Failed searches are not cached.
func (c *CachedProvider) Search(ctx context.Context, query string, count int) ([]entities.EvidenceItem, error) {
	key := fmt.Sprintf("%d:%s", count, query)

	if cached, found := c.cache.Get(key); found {
		return cached.([]entities.EvidenceItem), nil
	}

	items, err := c.provider.Search(ctx, query, count)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, items, cache.DefaultExpiration)
	return items, nil
}
