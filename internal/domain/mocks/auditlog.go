package mocks

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// AuditLog is a mock implementation of ports.AuditLog.
type AuditLog struct {
	Entries []entities.AuditEntry
	Err     error

	// Call tracking
	LogCallCount int
	LastAction   string
}

// LogAction appends an entry to the in-memory log.
func (m *AuditLog) LogAction(ctx context.Context, action string, fingerprint string, details map[string]any) error {
	m.LogCallCount++
	m.LastAction = action
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entities.AuditEntry{
		ID:          int64(len(m.Entries) + 1),
		Action:      action,
		Fingerprint: fingerprint,
		Details:     details,
	})
	return nil
}

// FindRecent returns the most recent entries, newest first.
func (m *AuditLog) FindRecent(ctx context.Context, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	entries := make([]entities.AuditEntry, 0, limit)
	for i := len(m.Entries) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, m.Entries[i])
	}
	return entries, nil
}

// FindByFingerprint returns entries matching the fingerprint.
func (m *AuditLog) FindByFingerprint(ctx context.Context, fingerprint string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var entries []entities.AuditEntry
	for _, e := range m.Entries {
		if e.Fingerprint == fingerprint {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
