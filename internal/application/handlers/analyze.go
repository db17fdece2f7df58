// Package handlers contains application-level orchestration between the
// CLI and domain services.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/claim-core/internal/domain/services"
)

// AnalyzeHandler handles claim analysis requests.
type AnalyzeHandler struct {
	analysisService *services.AnalysisService
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analysisService *services.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
	}
}

// AnalyzeOptions controls analysis behavior.
type AnalyzeOptions struct {
	Force bool // Skip the cache and re-analyze
}

// Handle analyzes a claim and returns the verdict, cached or fresh.
func (h *AnalyzeHandler) Handle(ctx context.Context, claimText string, opts AnalyzeOptions) (*services.AnalysisResult, error) {
	if strings.TrimSpace(claimText) == "" {
		return nil, services.ErrEmptyClaim
	}

	result, err := h.analysisService.Analyze(ctx, claimText, services.AnalysisOptions{Force: opts.Force})
	if err != nil {
		return nil, fmt.Errorf("analyzing claim: %w", err)
	}

	return result, nil
}
