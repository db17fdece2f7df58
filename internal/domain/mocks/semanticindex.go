// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

// SemanticIndex is a mock implementation of ports.SemanticIndex backed by
// an in-memory map.
type SemanticIndex struct {
	Records   map[string]entities.ClaimRecord
	Neighbors []ports.ScoredRecord
	Err       error

	// Fine-grained errors (take precedence over Err for their call)
	QueryErr  error
	UpsertErr error

	// Call tracking
	GetCallCount    int
	QueryCallCount  int
	UpsertCallCount int
	UpdateCallCount int
	LastUpsert      entities.ClaimRecord
	LastUpdate      map[string]string
}

func (m *SemanticIndex) records() map[string]entities.ClaimRecord {
	if m.Records == nil {
		m.Records = make(map[string]entities.ClaimRecord)
	}
	return m.Records
}

// Get retrieves a record by fingerprint.
func (m *SemanticIndex) Get(ctx context.Context, fingerprint string) (entities.ClaimRecord, bool, error) {
	m.GetCallCount++
	if m.Err != nil {
		return entities.ClaimRecord{}, false, m.Err
	}
	record, found := m.records()[fingerprint]
	return record, found, nil
}

// QueryNearest returns the configured neighbors.
func (m *SemanticIndex) QueryNearest(ctx context.Context, text string, k int) ([]ports.ScoredRecord, error) {
	m.QueryCallCount++
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Neighbors) > k {
		return m.Neighbors[:k], nil
	}
	return m.Neighbors, nil
}

// Upsert stores a record keyed by fingerprint.
func (m *SemanticIndex) Upsert(ctx context.Context, record entities.ClaimRecord) error {
	m.UpsertCallCount++
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	if m.Err != nil {
		return m.Err
	}
	m.LastUpsert = record
	m.records()[record.Fingerprint] = record
	return nil
}

// UpdateMetadata patches feedback fields on a stored record.
func (m *SemanticIndex) UpdateMetadata(ctx context.Context, fingerprint string, fields map[string]string) error {
	m.UpdateCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.LastUpdate = fields
	record := m.records()[fingerprint]
	if v, ok := fields["user_feedback"]; ok {
		record.UserFeedback = entities.Feedback(v)
	}
	m.records()[fingerprint] = record
	return nil
}

// List returns all stored records.
func (m *SemanticIndex) List(ctx context.Context, limit int) ([]entities.ClaimRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	records := make([]entities.ClaimRecord, 0, len(m.records()))
	for _, record := range m.records() {
		records = append(records, record)
		if len(records) == limit {
			break
		}
	}
	return records, nil
}

// Count returns the number of stored records.
func (m *SemanticIndex) Count(ctx context.Context) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return uint64(len(m.records())), nil
}
