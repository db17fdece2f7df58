package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

// ErrEmptyClaim is returned when a claim is empty or whitespace-only.
var ErrEmptyClaim = errors.New("claim text is empty")

// AnalysisConfig holds the tunables of the cache decision engine. It is
// passed in explicitly so the engine is testable with injected thresholds.
type AnalysisConfig struct {
	// SimilarityThreshold is the minimum similarity for a cached record
	// to be considered at all.
	SimilarityThreshold float64
	// CandidateLimit is how many nearest neighbors to retrieve.
	CandidateLimit int
	// EvidenceTarget is the total evidence count requested on a miss.
	EvidenceTarget int
}

// DefaultAnalysisConfig returns the standard engine configuration.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		SimilarityThreshold: 0.8,
		CandidateLimit:      5,
		EvidenceTarget:      DefaultEvidenceTarget,
	}
}

// AnalysisOptions controls a single analysis request.
type AnalysisOptions struct {
	// Force skips the cache lookup and always performs a fresh analysis.
	// The result is still persisted. Force also admits empty claim text,
	// which is analyzed but never written to the store.
	Force bool
}

// AnalysisResult is the outcome of one claim analysis.
type AnalysisResult struct {
	ClaimText      string
	Fingerprint    string
	Verdict        entities.Verdict
	Explanation    string
	Evidence       []entities.EvidenceLink
	TimeDependency entities.TimeDependency
	AnalyzedAt     time.Time

	// CacheHit is true when a stored verdict was reused; Similarity then
	// carries the match score and MatchedClaim the stored claim text.
	CacheHit     bool
	Similarity   float64
	MatchedClaim string

	// SearchQuery is the refined query used on a miss.
	SearchQuery string

	// Persisted is false when the result was computed live but could not
	// be written to the store. The result is still valid for the caller.
	Persisted bool
}

// AnalysisService is the cache decision engine. For each claim it decides
// whether a previously computed verdict can be reused or fresh evidence
// must be gathered, and upserts new verdicts into the semantic index.
type AnalysisService struct {
	index      ports.SemanticIndex
	llm        ports.LLMClient
	aggregator *Aggregator
	audit      ports.AuditLog
	cfg        AnalysisConfig
}

// NewAnalysisService creates a new analysis service. audit may be nil, in
// which case events are not recorded.
func NewAnalysisService(index ports.SemanticIndex, llm ports.LLMClient, aggregator *Aggregator, audit ports.AuditLog, cfg AnalysisConfig) *AnalysisService {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultAnalysisConfig().SimilarityThreshold
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = DefaultAnalysisConfig().CandidateLimit
	}
	if cfg.EvidenceTarget <= 0 {
		cfg.EvidenceTarget = DefaultAnalysisConfig().EvidenceTarget
	}

	return &AnalysisService{
		index:      index,
		llm:        llm,
		aggregator: aggregator,
		audit:      audit,
		cfg:        cfg,
	}
}

// Analyze runs the full decision pipeline for one claim: assess time
// dependency, look up cached candidates, and either reuse an admissible
// verdict or gather evidence, classify, and persist a new record.
//
// A store outage never fails the request: an unavailable index turns the
// lookup into a miss and the upsert into a no-op reported via
// AnalysisResult.Persisted.
func (s *AnalysisService) Analyze(ctx context.Context, claimText string, opts AnalysisOptions) (*AnalysisResult, error) {
	empty := strings.TrimSpace(claimText) == ""
	if empty && !opts.Force {
		return nil, ErrEmptyClaim
	}

	fingerprint := Fingerprint(claimText)

	dependency := s.assessTimeDependency(ctx, claimText)

	if !opts.Force && !empty {
		if result, ok := s.lookup(ctx, claimText, fingerprint, dependency); ok {
			return result, nil
		}
	}

	return s.analyzeFresh(ctx, claimText, fingerprint, dependency, empty)
}

// assessTimeDependency asks the collaborator once per claim, defaulting to
// not-time-dependent on any failure.
func (s *AnalysisService) assessTimeDependency(ctx context.Context, claimText string) entities.TimeDependency {
	dependency, err := s.llm.AssessTimeDependency(ctx, claimText)
	if err != nil {
		return entities.TimeDependency{}
	}
	if dependency.DurationDays < 0 {
		dependency.DurationDays = 0
	}
	return dependency
}

// lookup retrieves nearest neighbors and runs the candidate ranker. An
// unavailable index is treated as a cache miss, not an error. Staleness is
// evaluated only for time-dependent claims, against the neighbor's stored
// creation time and the current claim's window.
func (s *AnalysisService) lookup(ctx context.Context, claimText, fingerprint string, dependency entities.TimeDependency) (*AnalysisResult, bool) {
	neighbors, err := s.index.QueryNearest(ctx, claimText, s.cfg.CandidateLimit)
	if err != nil {
		s.logAction(ctx, "lookup_unavailable", fingerprint, map[string]any{"error": err.Error()})
		return nil, false
	}

	candidates := make([]entities.SimilarityCandidate, 0, len(neighbors))
	for _, n := range neighbors {
		c := entities.SimilarityCandidate{
			Record:     n.Record,
			Similarity: 1 - n.Distance,
		}
		if dependency.IsTimeDependent {
			c.TooOld = IsStale(n.Record.CreatedAt, dependency.DurationDays)
		}
		candidates = append(candidates, c)
	}

	best, ok := SelectCandidate(candidates, s.cfg.SimilarityThreshold)
	if !ok {
		if best.Record.Fingerprint != "" {
			s.logAction(ctx, "cache_reject", fingerprint, map[string]any{
				"candidate":  best.Record.Fingerprint,
				"similarity": best.Similarity,
				"too_old":    best.TooOld,
				"feedback":   string(best.Record.UserFeedback),
			})
		}
		return nil, false
	}

	s.logAction(ctx, "cache_hit", fingerprint, map[string]any{
		"candidate":  best.Record.Fingerprint,
		"similarity": best.Similarity,
	})

	return &AnalysisResult{
		ClaimText:      claimText,
		Fingerprint:    fingerprint,
		Verdict:        best.Record.Verdict,
		Explanation:    best.Record.Explanation,
		Evidence:       best.Record.Evidence,
		TimeDependency: best.Record.TimeDependency,
		AnalyzedAt:     best.Record.CreatedAt,
		CacheHit:       true,
		Similarity:     best.Similarity,
		MatchedClaim:   best.Record.ClaimText,
		Persisted:      true,
	}, true
}

// analyzeFresh gathers evidence, obtains a verdict, and persists the new
// record. Empty claims are analyzed but never written.
func (s *AnalysisService) analyzeFresh(ctx context.Context, claimText, fingerprint string, dependency entities.TimeDependency, empty bool) (*AnalysisResult, error) {
	query := s.refineQuery(ctx, claimText)
	evidence := s.aggregator.Aggregate(ctx, query, s.cfg.EvidenceTarget)
	verdict, explanation := s.classify(ctx, claimText, evidence)

	now := timeNow().UTC()
	record := entities.ClaimRecord{
		Fingerprint:    fingerprint,
		ClaimText:      claimText,
		Verdict:        verdict,
		Explanation:    explanation,
		CreatedAt:      now,
		Evidence:       evidenceLinks(evidence),
		TimeDependency: dependency,
	}

	persisted := false
	if !empty {
		if err := s.index.Upsert(ctx, record); err != nil {
			s.logAction(ctx, "persist_failed", fingerprint, map[string]any{"error": err.Error()})
		} else {
			persisted = true
		}
	}

	s.logAction(ctx, "analyzed", fingerprint, map[string]any{
		"verdict":   string(verdict),
		"evidence":  len(record.Evidence),
		"persisted": persisted,
	})

	return &AnalysisResult{
		ClaimText:      claimText,
		Fingerprint:    fingerprint,
		Verdict:        verdict,
		Explanation:    explanation,
		Evidence:       record.Evidence,
		TimeDependency: dependency,
		AnalyzedAt:     now,
		SearchQuery:    query,
		Persisted:      persisted,
	}, nil
}

// refineQuery turns the claim into a search query, falling back to the
// original claim text when the collaborator fails or returns nothing.
func (s *AnalysisService) refineQuery(ctx context.Context, claimText string) string {
	refined, err := s.llm.RefineQuery(ctx, claimText)
	if err != nil || strings.TrimSpace(refined) == "" {
		return claimText
	}
	return refined
}

// classify obtains a verdict from the collaborator, degrading a transport
// or parse failure to an Error verdict with a readable explanation.
func (s *AnalysisService) classify(ctx context.Context, claimText string, evidence []entities.EvidenceItem) (entities.Verdict, string) {
	verdict, explanation, err := s.llm.Classify(ctx, claimText, evidence)
	if err != nil {
		return entities.VerdictError, fmt.Sprintf("Analysis failed due to technical error: %v", err)
	}
	return verdict, explanation
}

// evidenceLinks converts evidence items to their persistable form,
// dropping entries without a resolvable URL.
func evidenceLinks(items []entities.EvidenceItem) []entities.EvidenceLink {
	links := make([]entities.EvidenceLink, 0, len(items))
	for _, item := range items {
		if !resolvableURL(item.URL) {
			continue
		}
		links = append(links, item.Link())
	}
	if len(links) == 0 {
		return nil
	}
	return links
}

// resolvableURL reports whether raw is a usable http(s) URL rather than a
// placeholder or garbage.
func resolvableURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// logAction records an audit event; failures are deliberately ignored.
func (s *AnalysisService) logAction(ctx context.Context, action, fingerprint string, details map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogAction(ctx, action, fingerprint, details)
}
