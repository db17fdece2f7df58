package entities

import "time"

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID          int64          `json:"id"`
	Action      string         `json:"action"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
