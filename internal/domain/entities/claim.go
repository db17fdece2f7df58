// Package entities contains core domain data structures.
package entities

import "time"

// Verdict is the outcome of analyzing a claim against gathered evidence.
// The string values match what the verdict collaborator is prompted to
// return, so they round-trip through the store unchanged.
type Verdict string

const (
	VerdictLikelyTrue  Verdict = "Likely True"
	VerdictLikelyFalse Verdict = "Likely False"
	VerdictUncertain   Verdict = "Uncertain/Needs More Info"
	VerdictError       Verdict = "Error"
)

// Feedback is an explicit user signal about a stored verdict.
type Feedback string

const (
	FeedbackAccurate   Feedback = "accurate"
	FeedbackInaccurate Feedback = "inaccurate"
)

// Valid reports whether f is one of the recognized feedback values.
func (f Feedback) Valid() bool {
	return f == FeedbackAccurate || f == FeedbackInaccurate
}

// TimeDependency describes how long a verdict for a claim stays relevant.
// DurationDays is meaningless when IsTimeDependent is false.
type TimeDependency struct {
	IsTimeDependent bool `json:"is_time_dependent"`
	DurationDays    int  `json:"dependency_duration_days"`
}

// EvidenceLink is a persisted reference to a source that grounded a verdict.
type EvidenceLink struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source"`
	Snippet string `json:"snippet,omitempty"`
}

// ClaimRecord is a cached analysis result, keyed by fingerprint.
// Exactly one record exists per fingerprint; writes replace in place.
type ClaimRecord struct {
	Fingerprint    string         `json:"fingerprint"`
	ClaimText      string         `json:"claim_text"`
	Verdict        Verdict        `json:"verdict"`
	Explanation    string         `json:"explanation"`
	CreatedAt      time.Time      `json:"created_at"`
	Evidence       []EvidenceLink `json:"evidence_links,omitempty"`
	TimeDependency TimeDependency `json:"time_dependency"`
	UserFeedback   Feedback       `json:"user_feedback,omitempty"`
	FeedbackAt     time.Time      `json:"feedback_timestamp,omitempty"`
}

// SimilarityCandidate is a historical record paired with its semantic
// similarity to the claim under analysis. TooOld is derived from the
// record's age and the new claim's time-dependency window.
type SimilarityCandidate struct {
	Record     ClaimRecord
	Similarity float64
	TooOld     bool
}
