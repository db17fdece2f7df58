package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

func TestTavilySearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)

		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.APIKey)
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, 3, req.MaxResults)

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "First", "url": "https://example.com/1", "content": "first content"},
				{"title": "Second", "url": "https://example.com/2", "content": "second content"},
			},
		})
	}))
	defer server.Close()

	provider := NewTavily("test-key")
	provider.baseURL = server.URL

	items, err := provider.Search(context.Background(), "some query", 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "first content", items[0].Snippet)
	assert.Equal(t, "https://example.com/1", items[0].URL)
	assert.Equal(t, "Tavily", items[0].Source)
}

func TestTavilySearchTruncatesToCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "A", "url": "https://example.com/a"},
				{"title": "B", "url": "https://example.com/b"},
				{"title": "C", "url": "https://example.com/c"},
			},
		})
	}))
	defer server.Close()

	provider := NewTavily("test-key")
	provider.baseURL = server.URL

	items, err := provider.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestTavilySearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := NewTavily("bad-key")
	provider.baseURL = server.URL

	_, err := provider.Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSerpAPISearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "google", query.Get("engine"))
		assert.Equal(t, "some query", query.Get("q"))
		assert.Equal(t, "test-key", query.Get("api_key"))
		assert.Equal(t, "3", query.Get("num"))

		json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "Result", "snippet": "a snippet", "link": "https://example.com/r"},
			},
		})
	}))
	defer server.Close()

	provider := NewSerpAPI("test-key")
	provider.baseURL = server.URL

	items, err := provider.Search(context.Background(), "some query", 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Result", items[0].Title)
	assert.Equal(t, "a snippet", items[0].Snippet)
	assert.Equal(t, "https://example.com/r", items[0].URL)
	assert.Equal(t, "SerpAPI", items[0].Source)
}

func TestSerpAPISearchNoOrganicResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"search_metadata": map[string]string{"status": "Success"}})
	}))
	defer server.Close()

	provider := NewSerpAPI("test-key")
	provider.baseURL = server.URL

	items, err := provider.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Empty(t, items)
}

const duckduckgoHTML = `
<html><body>
  <div class="result">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Ffirst&rut=abc">First Result</a>
    <a class="result__snippet">First snippet text</a>
  </div>
  <div class="result">
    <a class="result__a" href="https://example.com/second">Second Result</a>
    <a class="result__snippet">Second snippet text</a>
  </div>
  <div class="result">
    <a class="result__a" href="https://example.com/third"></a>
  </div>
</body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/html/", r.URL.Path)
		assert.Equal(t, "some query", r.URL.Query().Get("q"))
		w.Write([]byte(duckduckgoHTML))
	}))
	defer server.Close()

	provider := NewDuckDuckGo()
	provider.baseURL = server.URL

	items, err := provider.Search(context.Background(), "some query", 5)
	require.NoError(t, err)
	// Untitled third result is skipped.
	require.Len(t, items, 2)
	assert.Equal(t, "First Result", items[0].Title)
	assert.Equal(t, "https://example.com/first", items[0].URL)
	assert.Equal(t, "First snippet text", items[0].Snippet)
	assert.Equal(t, "DuckDuckGo", items[0].Source)
	assert.Equal(t, "https://example.com/second", items[1].URL)
}

func TestDuckDuckGoSearchRespectsCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(duckduckgoHTML))
	}))
	defer server.Close()

	provider := NewDuckDuckGo()
	provider.baseURL = server.URL

	items, err := provider.Search(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{
			name:     "uddg redirect unwrapped",
			href:     "//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=abc",
			expected: "https://example.com/page",
		},
		{
			name:     "direct link untouched",
			href:     "https://example.com/page",
			expected: "https://example.com/page",
		},
		{
			name:     "protocol relative gets scheme",
			href:     "//example.com/page",
			expected: "https://example.com/page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveRedirect(tt.href))
		})
	}
}

// countingProvider counts Search calls for decorator tests.
type countingProvider struct {
	calls int
	items []entities.EvidenceItem
	err   error
}

func (c *countingProvider) Name() string { return "counting" }

func (c *countingProvider) Search(_ context.Context, _ string, _ int) ([]entities.EvidenceItem, error) {
	c.calls++
	return c.items, c.err
}

func TestCachedProviderHitsCache(t *testing.T) {
	inner := &countingProvider{items: []entities.EvidenceItem{{Title: "cached"}}}
	provider := NewCachedProvider(inner, time.Minute)

	first, err := provider.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	second, err := provider.Search(context.Background(), "q", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "counting", provider.Name())
}

func TestCachedProviderKeyIncludesCount(t *testing.T) {
	inner := &countingProvider{items: []entities.EvidenceItem{{Title: "x"}}}
	provider := NewCachedProvider(inner, time.Minute)

	_, err := provider.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	_, err = provider.Search(context.Background(), "q", 5)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("upstream down")}
	provider := NewCachedProvider(inner, time.Minute)

	_, err := provider.Search(context.Background(), "q", 3)
	require.Error(t, err)
	_, err = provider.Search(context.Background(), "q", 3)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedProviderDelegates(t *testing.T) {
	inner := &countingProvider{items: []entities.EvidenceItem{{Title: "x"}}}
	provider := NewRateLimitedProvider(inner, 100, 1)

	items, err := provider.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "counting", provider.Name())
}

func TestRateLimitedProviderCancelledContext(t *testing.T) {
	inner := &countingProvider{items: []entities.EvidenceItem{{Title: "x"}}}
	// Burst of 1 is consumed immediately, second call must wait.
	provider := NewRateLimitedProvider(inner, 0.01, 1)

	_, err := provider.Search(context.Background(), "q", 3)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = provider.Search(ctx, "q", 3)
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
