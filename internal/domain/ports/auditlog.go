package ports

import (
	"context"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// AuditLog records analysis and feedback events for later inspection.
// Logging is best-effort: callers ignore errors and never let a failed
// write affect the request.
type AuditLog interface {
	// LogAction appends an event to the log.
	LogAction(ctx context.Context, action string, fingerprint string, details map[string]any) error

	// FindRecent returns the most recent entries, newest first.
	FindRecent(ctx context.Context, limit int) ([]entities.AuditEntry, error)

	// FindByFingerprint returns all entries for a claim fingerprint.
	FindByFingerprint(ctx context.Context, fingerprint string) ([]entities.AuditEntry, error)
}
