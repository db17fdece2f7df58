package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

type mockIndex struct {
	records   map[string]entities.ClaimRecord
	neighbors []ports.ScoredRecord

	getErr    error
	queryErr  error
	upsertErr error
	updateErr error

	upsertCount int
	lastPatch   map[string]string
}

func newMockIndex() *mockIndex {
	return &mockIndex{records: make(map[string]entities.ClaimRecord)}
}

func (m *mockIndex) Get(ctx context.Context, fingerprint string) (entities.ClaimRecord, bool, error) {
	if m.getErr != nil {
		return entities.ClaimRecord{}, false, m.getErr
	}
	record, found := m.records[fingerprint]
	return record, found, nil
}

func (m *mockIndex) QueryNearest(ctx context.Context, text string, k int) ([]ports.ScoredRecord, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if len(m.neighbors) > k {
		return m.neighbors[:k], nil
	}
	return m.neighbors, nil
}

func (m *mockIndex) Upsert(ctx context.Context, record entities.ClaimRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertCount++
	m.records[record.Fingerprint] = record
	return nil
}

func (m *mockIndex) UpdateMetadata(ctx context.Context, fingerprint string, fields map[string]string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastPatch = fields
	record := m.records[fingerprint]
	if v, ok := fields["user_feedback"]; ok {
		record.UserFeedback = entities.Feedback(v)
	}
	if v, ok := fields["feedback_timestamp"]; ok {
		record.FeedbackAt = ParseTimestamp(v)
	}
	m.records[fingerprint] = record
	return nil
}

func (m *mockIndex) List(ctx context.Context, limit int) ([]entities.ClaimRecord, error) {
	records := make([]entities.ClaimRecord, 0, len(m.records))
	for _, r := range m.records {
		records = append(records, r)
	}
	return records, nil
}

func (m *mockIndex) Count(ctx context.Context) (uint64, error) {
	return uint64(len(m.records)), nil
}

type mockLLM struct {
	verdict     entities.Verdict
	explanation string
	classifyErr error

	dependency    entities.TimeDependency
	dependencyErr error

	refined   string
	refineErr error

	classifiedEvidence []entities.EvidenceItem
}

func (m *mockLLM) Classify(ctx context.Context, claimText string, evidence []entities.EvidenceItem) (entities.Verdict, string, error) {
	m.classifiedEvidence = evidence
	if m.classifyErr != nil {
		return "", "", m.classifyErr
	}
	return m.verdict, m.explanation, nil
}

func (m *mockLLM) AssessTimeDependency(ctx context.Context, claimText string) (entities.TimeDependency, error) {
	if m.dependencyErr != nil {
		return entities.TimeDependency{}, m.dependencyErr
	}
	return m.dependency, nil
}

func (m *mockLLM) RefineQuery(ctx context.Context, claimText string) (string, error) {
	if m.refineErr != nil {
		return "", m.refineErr
	}
	return m.refined, nil
}

func newTestService(index *mockIndex, llm *mockLLM, providers ...ports.SearchProvider) *AnalysisService {
	agg := NewAggregator(providers, time.Second)
	return NewAnalysisService(index, llm, agg, nil, DefaultAnalysisConfig())
}

func TestAnalyze_MissPersistsNewRecord(t *testing.T) {
	index := newMockIndex()
	llm := &mockLLM{
		verdict:     entities.VerdictLikelyTrue,
		explanation: "Multiple sources confirm the claim.",
		refined:     "Is it true that the Earth is round?",
	}
	provider := &stubProvider{name: "Tavily", items: []entities.EvidenceItem{
		item("Earth shape", "https://example.org/earth", "Tavily"),
	}}

	svc := newTestService(index, llm, provider)

	result, err := svc.Analyze(context.Background(), "The Earth is round", AnalysisOptions{})
	require.NoError(t, err)

	assert.False(t, result.CacheHit)
	assert.True(t, result.Persisted)
	assert.Equal(t, entities.VerdictLikelyTrue, result.Verdict)
	assert.Equal(t, "Is it true that the Earth is round?", result.SearchQuery)
	assert.False(t, result.TimeDependency.IsTimeDependent)

	stored, found := index.records[result.Fingerprint]
	require.True(t, found)
	assert.Equal(t, entities.VerdictLikelyTrue, stored.Verdict)
	assert.False(t, stored.TimeDependency.IsTimeDependent)
	require.Len(t, stored.Evidence, 1)
	assert.Equal(t, "https://example.org/earth", stored.Evidence[0].URL)
}

func TestAnalyze_HitReturnsCachedVerdict(t *testing.T) {
	cached := entities.ClaimRecord{
		Fingerprint: Fingerprint("The Earth is round"),
		ClaimText:   "The Earth is round",
		Verdict:     entities.VerdictLikelyTrue,
		Explanation: "Cached explanation.",
		CreatedAt:   time.Now().UTC().AddDate(0, 0, -30),
	}

	index := newMockIndex()
	index.neighbors = []ports.ScoredRecord{{Record: cached, Distance: 0.03}}
	llm := &mockLLM{verdict: entities.VerdictUncertain}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "the earth is round", AnalysisOptions{})
	require.NoError(t, err)

	assert.True(t, result.CacheHit)
	assert.Equal(t, entities.VerdictLikelyTrue, result.Verdict)
	assert.Equal(t, "Cached explanation.", result.Explanation)
	assert.Equal(t, "The Earth is round", result.MatchedClaim)
	assert.InDelta(t, 0.97, result.Similarity, 1e-9)
	// A hit never writes.
	assert.Zero(t, index.upsertCount)
}

func TestAnalyze_StaleRecordForcesMiss(t *testing.T) {
	cached := entities.ClaimRecord{
		Fingerprint: Fingerprint("Bitcoin price today"),
		ClaimText:   "Bitcoin price today",
		Verdict:     entities.VerdictLikelyTrue,
		CreatedAt:   time.Now().UTC().AddDate(0, 0, -10),
		TimeDependency: entities.TimeDependency{
			IsTimeDependent: true,
			DurationDays:    2,
		},
	}

	index := newMockIndex()
	index.neighbors = []ports.ScoredRecord{{Record: cached, Distance: 0}}
	llm := &mockLLM{
		verdict:    entities.VerdictUncertain,
		dependency: entities.TimeDependency{IsTimeDependent: true, DurationDays: 2},
	}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "Bitcoin price today", AnalysisOptions{})
	require.NoError(t, err)

	// Perfect similarity, but the record is outside its relevance window.
	assert.False(t, result.CacheHit)
	assert.Equal(t, entities.VerdictUncertain, result.Verdict)
	assert.Equal(t, 1, index.upsertCount)
}

func TestAnalyze_NotTimeDependentIgnoresAge(t *testing.T) {
	cached := entities.ClaimRecord{
		Fingerprint: Fingerprint("The Earth is round"),
		ClaimText:   "The Earth is round",
		Verdict:     entities.VerdictLikelyTrue,
		CreatedAt:   time.Now().UTC().AddDate(-2, 0, 0),
	}

	index := newMockIndex()
	index.neighbors = []ports.ScoredRecord{{Record: cached, Distance: 0.02}}
	llm := &mockLLM{verdict: entities.VerdictUncertain}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "The Earth is round", AnalysisOptions{})
	require.NoError(t, err)
	assert.True(t, result.CacheHit)
}

func TestAnalyze_IndexUnavailableTreatedAsMiss(t *testing.T) {
	index := newMockIndex()
	index.queryErr = errors.New("connection refused")
	index.upsertErr = errors.New("connection refused")
	llm := &mockLLM{verdict: entities.VerdictLikelyFalse, explanation: "live answer"}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "some claim", AnalysisOptions{})
	require.NoError(t, err)

	// The caller still gets a live-computed answer.
	assert.False(t, result.CacheHit)
	assert.False(t, result.Persisted)
	assert.Equal(t, entities.VerdictLikelyFalse, result.Verdict)
}

func TestAnalyze_PersistFailureDegrades(t *testing.T) {
	index := newMockIndex()
	index.upsertErr = errors.New("store down")
	llm := &mockLLM{verdict: entities.VerdictLikelyTrue}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "some claim", AnalysisOptions{})
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	assert.Equal(t, entities.VerdictLikelyTrue, result.Verdict)
}

func TestAnalyze_EmptyClaimRejected(t *testing.T) {
	svc := newTestService(newMockIndex(), &mockLLM{})

	_, err := svc.Analyze(context.Background(), "   \t\n", AnalysisOptions{})
	assert.ErrorIs(t, err, ErrEmptyClaim)
}

func TestAnalyze_EmptyClaimForcedButNeverPersisted(t *testing.T) {
	index := newMockIndex()
	llm := &mockLLM{verdict: entities.VerdictUncertain}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "  ", AnalysisOptions{Force: true})
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	assert.Zero(t, index.upsertCount)
}

func TestAnalyze_ForceSkipsCache(t *testing.T) {
	cached := entities.ClaimRecord{
		Fingerprint: Fingerprint("The Earth is round"),
		Verdict:     entities.VerdictLikelyTrue,
		CreatedAt:   time.Now().UTC(),
	}
	index := newMockIndex()
	index.neighbors = []ports.ScoredRecord{{Record: cached, Distance: 0}}
	llm := &mockLLM{verdict: entities.VerdictLikelyFalse}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "The Earth is round", AnalysisOptions{Force: true})
	require.NoError(t, err)
	assert.False(t, result.CacheHit)
	assert.Equal(t, entities.VerdictLikelyFalse, result.Verdict)
	assert.Equal(t, 1, index.upsertCount)
}

func TestAnalyze_ClassifyErrorDegradesToErrorVerdict(t *testing.T) {
	index := newMockIndex()
	llm := &mockLLM{classifyErr: errors.New("model overloaded")}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "some claim", AnalysisOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.VerdictError, result.Verdict)
	assert.Contains(t, result.Explanation, "model overloaded")
}

func TestAnalyze_RefineFailureFallsBackToClaim(t *testing.T) {
	index := newMockIndex()
	llm := &mockLLM{verdict: entities.VerdictUncertain, refineErr: errors.New("quota")}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "original claim text", AnalysisOptions{})
	require.NoError(t, err)
	assert.Equal(t, "original claim text", result.SearchQuery)
}

func TestAnalyze_TimeDependencyFailureDefaults(t *testing.T) {
	index := newMockIndex()
	llm := &mockLLM{verdict: entities.VerdictUncertain, dependencyErr: errors.New("timeout")}

	svc := newTestService(index, llm)

	result, err := svc.Analyze(context.Background(), "some claim", AnalysisOptions{})
	require.NoError(t, err)
	assert.False(t, result.TimeDependency.IsTimeDependent)
	assert.Zero(t, result.TimeDependency.DurationDays)
}

func TestAnalyze_UpsertIsIdempotent(t *testing.T) {
	index := newMockIndex()
	llm := &mockLLM{verdict: entities.VerdictLikelyTrue, explanation: "first"}

	svc := newTestService(index, llm)

	first, err := svc.Analyze(context.Background(), "repeat claim", AnalysisOptions{Force: true})
	require.NoError(t, err)

	llm.verdict = entities.VerdictLikelyFalse
	llm.explanation = "second"

	second, err := svc.Analyze(context.Background(), "repeat claim", AnalysisOptions{Force: true})
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	require.Len(t, index.records, 1)
	stored := index.records[second.Fingerprint]
	assert.Equal(t, entities.VerdictLikelyFalse, stored.Verdict)
	assert.Equal(t, "second", stored.Explanation)
}

func TestAnalyze_DropsPlaceholderEvidenceURLs(t *testing.T) {
	index := newMockIndex()
	llm := &mockLLM{verdict: entities.VerdictUncertain}
	provider := &stubProvider{name: "P", items: []entities.EvidenceItem{
		item("Good", "https://example.com/good", "P"),
		item("Placeholder", "No URL available", "P"),
		item("Blank", "", "P"),
	}}

	svc := newTestService(index, llm, provider)

	result, err := svc.Analyze(context.Background(), "some claim", AnalysisOptions{})
	require.NoError(t, err)
	require.Len(t, result.Evidence, 1)
	assert.Equal(t, "https://example.com/good", result.Evidence[0].URL)
}
