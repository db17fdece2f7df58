package search

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

// RateLimitedProvider decorates a SearchProvider with a token-bucket
// rate limiter, keeping scrape-based providers under abuse thresholds.
type RateLimitedProvider struct {
	provider ports.SearchProvider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider wraps the given provider with a limiter
// allowing perSecond requests with the given burst.
func NewRateLimitedProvider(provider ports.SearchProvider, perSecond float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Name identifies the underlying provider.
func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

// Search waits for limiter clearance, then delegates. A context
// cancelled while waiting aborts the search.
func (r *RateLimitedProvider) Search(ctx context.Context, query string, count int) ([]entities.EvidenceItem, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	return r.provider.Search(ctx, query, count)
}
