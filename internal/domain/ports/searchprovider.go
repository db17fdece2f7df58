package ports

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// SearchProvider defines the interface for one web search backend.
// Providers are heterogeneous, rate-limited, and occasionally down; an
// error from Search degrades to an empty contribution in the aggregate,
// never an aborted request.
type SearchProvider interface {
	// Name identifies the provider in evidence items and logs.
	Name() string

	// Search returns up to count results for the query.
	Search(ctx context.Context, query string, count int) ([]entities.EvidenceItem, error)
}
