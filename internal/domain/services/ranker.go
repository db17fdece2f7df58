package services

import (
	"sort"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

// Priority tiers for cached candidates. Staleness always overrides
// feedback: a too-old candidate sits below everything else regardless of
// what users said about it.
const (
	tierTooOld     = 0
	tierNoFeedback = 1
	tierAccurate   = 2
	tierInaccurate = 3
)

// candidateTier assigns the ranking tier for a candidate. Unrecognized
// feedback values rank the same as no feedback.
func candidateTier(c entities.SimilarityCandidate) int {
	switch {
	case c.TooOld:
		return tierTooOld
	case c.Record.UserFeedback == entities.FeedbackInaccurate:
		return tierInaccurate
	case c.Record.UserFeedback == entities.FeedbackAccurate:
		return tierAccurate
	default:
		return tierNoFeedback
	}
}

// SelectCandidate picks at most one admissible cached result from a set of
// semantically similar candidates.
//
// Candidates below the similarity threshold are discarded. The survivors
// are ordered by descending (tier, similarity) and the top one is returned
// as best. ok is false when no candidate survives, or when the top-ranked
// candidate is too old or carries inaccurate feedback: those are hard
// rejections that force a fresh analysis, with no fallback to the
// second-best candidate. A rejected best is still returned so callers can
// report it in telemetry.
func SelectCandidate(candidates []entities.SimilarityCandidate, threshold float64) (best entities.SimilarityCandidate, ok bool) {
	eligible := make([]entities.SimilarityCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Similarity >= threshold {
			eligible = append(eligible, c)
		}
	}

	if len(eligible) == 0 {
		return entities.SimilarityCandidate{}, false
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		ti, tj := candidateTier(eligible[i]), candidateTier(eligible[j])
		if ti != tj {
			return ti > tj
		}
		return eligible[i].Similarity > eligible[j].Similarity
	})

	best = eligible[0]
	if best.TooOld || best.Record.UserFeedback == entities.FeedbackInaccurate {
		return best, false
	}

	return best, true
}
