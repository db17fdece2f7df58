package mocks

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// SearchProvider is a mock implementation of ports.SearchProvider.
type SearchProvider struct {
	ProviderName string
	Items        []entities.EvidenceItem
	Err          error

	// Call tracking
	SearchCallCount int
	LastQuery       string
	LastCount       int
}

// Name returns the configured provider name.
func (m *SearchProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Search returns the configured items or error.
func (m *SearchProvider) Search(ctx context.Context, query string, count int) ([]entities.EvidenceItem, error) {
	m.SearchCallCount++
	m.LastQuery = query
	m.LastCount = count
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Items, nil
}
