package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/services"
)

// FeedbackHandler handles user feedback submissions.
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// FeedbackResult contains the outcome of a feedback submission.
type FeedbackResult struct {
	Outcome services.FeedbackOutcome
	Message string
}

// Handle records feedback for a claim.
func (h *FeedbackHandler) Handle(ctx context.Context, claimText string, value entities.Feedback) (*FeedbackResult, error) {
	outcome, err := h.feedbackService.Record(ctx, claimText, value)
	if err != nil {
		return nil, fmt.Errorf("recording feedback: %w", err)
	}

	return &FeedbackResult{
		Outcome: outcome,
		Message: feedbackMessage(outcome),
	}, nil
}

func feedbackMessage(outcome services.FeedbackOutcome) string {
	switch outcome {
	case services.FeedbackRecorded:
		return "Feedback recorded."
	case services.FeedbackNotLinked:
		return "Feedback accepted, but no cached record matches this claim."
	case services.FeedbackNotDurable:
		return "Feedback accepted, but the store is unavailable; it was not saved."
	default:
		return string(outcome)
	}
}
