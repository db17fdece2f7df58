package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

const (
	// DefaultEvidenceTarget is the default total result count for an
	// aggregate search.
	DefaultEvidenceTarget = 9
	// minPerProvider is the floor on the per-provider result count.
	minPerProvider = 2
	// DefaultProviderTimeout bounds each individual provider call.
	DefaultProviderTimeout = 10 * time.Second
)

// Aggregator fans a query out to independent search providers and merges
// their results into one deduplicated, priority-ordered evidence list.
// Provider order in the slice is the trust order: the first provider's
// results win ties.
type Aggregator struct {
	providers []ports.SearchProvider
	timeout   time.Duration
}

// NewAggregator creates an aggregator over the given providers. A
// non-positive timeout falls back to DefaultProviderTimeout.
func NewAggregator(providers []ports.SearchProvider, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &Aggregator{
		providers: providers,
		timeout:   timeout,
	}
}

// Aggregate queries every provider concurrently and returns at most target
// merged evidence items. Each provider call is independently time-bounded
// and failure-isolated: an error or timeout yields an empty contribution
// from that provider only. Total failure of all providers yields an empty
// slice, which callers must treat as a valid, analyzable state.
//
// Merge order is the fixed provider priority, not response arrival order,
// so output is reproducible regardless of which provider answers first.
// Within that order a result is dropped when one with the same normalized
// title was already appended.
func (a *Aggregator) Aggregate(ctx context.Context, query string, target int) []entities.EvidenceItem {
	if target <= 0 {
		target = DefaultEvidenceTarget
	}
	if len(a.providers) == 0 {
		return nil
	}

	perProvider := target / len(a.providers)
	if perProvider < minPerProvider {
		perProvider = minPerProvider
	}

	// results is indexed by provider position so the merge below follows
	// the priority order, not completion order.
	results := make([][]entities.EvidenceItem, len(a.providers))

	var wg sync.WaitGroup
	for i, provider := range a.providers {
		wg.Add(1)
		go func(i int, provider ports.SearchProvider) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			items, err := provider.Search(callCtx, query, perProvider)
			if err != nil {
				return
			}
			results[i] = items
		}(i, provider)
	}
	wg.Wait()

	merged := make([]entities.EvidenceItem, 0, target)
	seenTitles := make(map[string]bool)

	for _, items := range results {
		for _, item := range items {
			title := strings.ToLower(strings.TrimSpace(item.Title))
			if title == "" || seenTitles[title] {
				continue
			}
			seenTitles[title] = true
			merged = append(merged, item)
		}
	}

	if len(merged) > target {
		merged = merged[:target]
	}

	return merged
}
