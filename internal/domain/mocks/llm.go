package mocks

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// LLMClient is a mock implementation of ports.LLMClient.
type LLMClient struct {
	// Classify return values
	Verdict     entities.Verdict
	Explanation string
	ClassifyErr error

	// AssessTimeDependency return values
	Dependency    entities.TimeDependency
	DependencyErr error

	// RefineQuery return values
	Refined   string
	RefineErr error

	// Call tracking
	ClassifyCallCount int
	LastEvidence      []entities.EvidenceItem
}

// Classify returns the configured verdict or error.
func (m *LLMClient) Classify(ctx context.Context, claimText string, evidence []entities.EvidenceItem) (entities.Verdict, string, error) {
	m.ClassifyCallCount++
	m.LastEvidence = evidence
	if m.ClassifyErr != nil {
		return "", "", m.ClassifyErr
	}
	return m.Verdict, m.Explanation, nil
}

// AssessTimeDependency returns the configured dependency or error.
func (m *LLMClient) AssessTimeDependency(ctx context.Context, claimText string) (entities.TimeDependency, error) {
	if m.DependencyErr != nil {
		return entities.TimeDependency{}, m.DependencyErr
	}
	return m.Dependency, nil
}

// RefineQuery returns the configured query or error.
func (m *LLMClient) RefineQuery(ctx context.Context, claimText string) (string, error) {
	if m.RefineErr != nil {
		return "", m.RefineErr
	}
	if m.Refined == "" {
		return claimText, nil
	}
	return m.Refined, nil
}
