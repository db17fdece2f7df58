package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

func TestFormatJSON(t *testing.T) {
	records := []entities.ClaimRecord{
		{
			Fingerprint: "fp-1",
			ClaimText:   "The Eiffel Tower is in Paris",
			Verdict:     entities.VerdictLikelyTrue,
			Explanation: "Confirmed by multiple sources.",
			CreatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			Evidence: []entities.EvidenceLink{
				{Title: "Eiffel Tower", URL: "https://example.com/eiffel", Source: "Tavily"},
			},
			TimeDependency: entities.TimeDependency{IsTimeDependent: false},
		},
	}

	var buf bytes.Buffer
	err := formatJSON(&buf, records)
	require.NoError(t, err)

	// Verify it's valid JSON
	var parsed []map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	require.Len(t, parsed, 1)
	assert.Equal(t, "fp-1", parsed[0]["fingerprint"])
	assert.Equal(t, "The Eiffel Tower is in Paris", parsed[0]["claim_text"])
	assert.Equal(t, "Likely True", parsed[0]["verdict"])
}

func TestFormatJSON_EmptyRecords(t *testing.T) {
	var buf bytes.Buffer
	err := formatJSON(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormatCSV(t *testing.T) {
	records := []entities.ClaimRecord{
		{
			Fingerprint: "fp-1",
			ClaimText:   "Water boils at 100C at sea level",
			Verdict:     entities.VerdictLikelyTrue,
			Explanation: "Basic physics.",
			CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			TimeDependency: entities.TimeDependency{
				IsTimeDependent: true,
				DurationDays:    7,
			},
			UserFeedback: entities.FeedbackAccurate,
		},
	}

	var buf bytes.Buffer
	err := formatCSV(&buf, records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "fingerprint,claim_text,verdict,explanation,timestamp,is_time_dependent,dependency_duration_days,user_feedback", lines[0])
	assert.Contains(t, lines[1], "fp-1")
	assert.Contains(t, lines[1], "Likely True")
	assert.Contains(t, lines[1], "2026-01-02T03:04:05Z")
	assert.Contains(t, lines[1], "true,7,accurate")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly ten", truncate("exactly ten", 11))

	long := truncate("this is a much longer piece of claim text", 20)
	assert.True(t, strings.HasSuffix(long, "..."))
	assert.LessOrEqual(t, len(long), 20)
}
