package ports

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// LLMClient defines the interface for LLM operations. None of its methods
// are assumed infallible: callers substitute documented defaults on error.
type LLMClient interface {
	// Classify produces a verdict and explanation for a claim given the
	// gathered evidence. Evidence may be empty; that is a valid, if weak,
	// analyzable state.
	Classify(ctx context.Context, claimText string, evidence []entities.EvidenceItem) (entities.Verdict, string, error)

	// AssessTimeDependency decides whether the claim's truthfulness is
	// tied to a time window. Callers default to {false, 0} on error.
	AssessTimeDependency(ctx context.Context, claimText string) (entities.TimeDependency, error)

	// RefineQuery rewrites the claim into a web search query. Callers
	// fall back to the original claim text on error.
	RefineQuery(ctx context.Context, claimText string) (string, error)
}
