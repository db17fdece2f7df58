// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// ScoredRecord is a stored claim record paired with its distance from a
// query. Distance is in [0,1] where 0 means identical; callers derive
// similarity as 1 - distance.
type ScoredRecord struct {
	Record   entities.ClaimRecord
	Distance float64
}

// SemanticIndex defines the interface for the claim store with
// nearest-neighbor lookup. The index may be unavailable at any time;
// callers must treat every failure as a cache miss or a no-op, never as
// fatal to the request.
type SemanticIndex interface {
	// Get retrieves a record by exact fingerprint. A missing record is
	// reported via found=false, not an error.
	Get(ctx context.Context, fingerprint string) (record entities.ClaimRecord, found bool, err error)

	// QueryNearest returns up to k records semantically closest to text,
	// ordered by ascending distance.
	QueryNearest(ctx context.Context, text string, k int) ([]ScoredRecord, error)

	// Upsert stores a record keyed by its fingerprint, replacing any
	// existing record in place.
	Upsert(ctx context.Context, record entities.ClaimRecord) error

	// UpdateMetadata patches individual metadata fields on an existing
	// record without touching the rest.
	UpdateMetadata(ctx context.Context, fingerprint string, fields map[string]string) error

	// List returns stored records, up to limit.
	List(ctx context.Context, limit int) ([]entities.ClaimRecord, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (uint64, error)
}
