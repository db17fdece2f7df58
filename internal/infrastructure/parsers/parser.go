// Package parsers provides parsers for importing claim records from
// various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawRecord represents a claim record parsed from an external source
// before validation. Its JSON shape matches the export format;
// timestamps stay as strings until validation.
type RawRecord struct {
	Fingerprint    string            `json:"fingerprint,omitempty"`
	ClaimText      string            `json:"claim_text"`
	Verdict        string            `json:"verdict"`
	Explanation    string            `json:"explanation,omitempty"`
	CreatedAt      string            `json:"created_at,omitempty"`
	Evidence       []RawEvidence     `json:"evidence_links,omitempty"`
	TimeDependency RawTimeDependency `json:"time_dependency,omitempty"`
	UserFeedback   string            `json:"user_feedback,omitempty"`
	FeedbackAt     string            `json:"feedback_timestamp,omitempty"`
	LineNum        int               `json:"-"` // Line number in source file (set by parser)
}

// RawEvidence is a parsed evidence link.
type RawEvidence struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// RawTimeDependency is a parsed time-dependency block.
type RawTimeDependency struct {
	IsTimeDependent bool `json:"is_time_dependent"`
	DurationDays    int  `json:"dependency_duration_days"`
}

// Parser defines the interface for parsing claim records from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawRecord, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	default:
		return nil
	}
}
