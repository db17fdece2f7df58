package services

import "time"

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// timestampLayouts covers both "Z"-suffixed and offset-suffixed RFC 3339
// encodings, plus the bare form written by the store's earlier versions.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a stored timestamp. It returns the zero time when
// the input is empty or matches none of the known encodings; callers treat
// the zero time as "age unknown".
func ParseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsStale reports whether a record created at createdAt has outlived a
// relevance window of durationDays. It fails open: a non-positive window
// or an unknown creation time yields false, preferring cache reuse over a
// forced re-analysis when the age cannot be determined.
func IsStale(createdAt time.Time, durationDays int) bool {
	if durationDays <= 0 || createdAt.IsZero() {
		return false
	}

	elapsed := int(timeNow().UTC().Sub(createdAt.UTC()).Hours() / 24)
	return elapsed > durationDays
}
