package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

// FeedbackOutcome describes how a feedback submission was handled.
type FeedbackOutcome string

const (
	// FeedbackRecorded means the signal was attached to a cached record.
	FeedbackRecorded FeedbackOutcome = "recorded"
	// FeedbackNotLinked means no cached record exists for the claim; the
	// feedback was accepted but could not be linked. This is not an error
	// since the record may never have been persisted.
	FeedbackNotLinked FeedbackOutcome = "not_linked"
	// FeedbackNotDurable means the store was unavailable; the feedback
	// was accepted but not stored.
	FeedbackNotDurable FeedbackOutcome = "not_durable"
)

// FeedbackService attaches user correctness signals to cached records.
// The signal is read later by the candidate ranker.
type FeedbackService struct {
	index ports.SemanticIndex
	audit ports.AuditLog
}

// NewFeedbackService creates a new feedback service. audit may be nil.
func NewFeedbackService(index ports.SemanticIndex, audit ports.AuditLog) *FeedbackService {
	return &FeedbackService{
		index: index,
		audit: audit,
	}
}

// Record looks up the exact record for the claim (by fingerprint, not
// similarity) and merges the feedback value and timestamp into its
// metadata, leaving verdict, explanation, and evidence untouched.
func (s *FeedbackService) Record(ctx context.Context, claimText string, value entities.Feedback) (FeedbackOutcome, error) {
	if strings.TrimSpace(claimText) == "" {
		return "", ErrEmptyClaim
	}
	if !value.Valid() {
		return "", fmt.Errorf("invalid feedback value %q (want %q or %q)", value, entities.FeedbackAccurate, entities.FeedbackInaccurate)
	}

	fingerprint := Fingerprint(claimText)

	_, found, err := s.index.Get(ctx, fingerprint)
	if err != nil {
		s.logAction(ctx, "feedback_not_durable", fingerprint, map[string]any{"error": err.Error()})
		return FeedbackNotDurable, nil
	}
	if !found {
		s.logAction(ctx, "feedback_not_linked", fingerprint, map[string]any{"feedback": string(value)})
		return FeedbackNotLinked, nil
	}

	fields := map[string]string{
		"user_feedback":      string(value),
		"feedback_timestamp": timeNow().UTC().Format(time.RFC3339),
	}
	if err := s.index.UpdateMetadata(ctx, fingerprint, fields); err != nil {
		s.logAction(ctx, "feedback_not_durable", fingerprint, map[string]any{"error": err.Error()})
		return FeedbackNotDurable, nil
	}

	s.logAction(ctx, "feedback_recorded", fingerprint, map[string]any{"feedback": string(value)})
	return FeedbackRecorded, nil
}

func (s *FeedbackService) logAction(ctx context.Context, action, fingerprint string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogAction(ctx, action, fingerprint, details)
}
