// Package search provides SearchProvider implementations for the
// evidence aggregator, plus caching and rate limiting decorators.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

const defaultTavilyBaseURL = "https://api.tavily.com"

// Tavily implements the SearchProvider interface using the Tavily
// search API.
type Tavily struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewTavily creates a new Tavily search provider.
func NewTavily(apiKey string) *Tavily {
	return &Tavily{
		apiKey:  apiKey,
		baseURL: defaultTavilyBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies the provider in evidence source labels.
func (t *Tavily) Name() string {
	return "Tavily"
}

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search queries Tavily and returns up to count evidence items.
func (t *Tavily) Search(ctx context.Context, query string, count int) ([]entities.EvidenceItem, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:      t.apiKey,
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  count,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling tavily: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned status %d", resp.StatusCode)
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	items := make([]entities.EvidenceItem, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		if len(items) >= count {
			break
		}
		items = append(items, entities.EvidenceItem{
			Title:   result.Title,
			Snippet: result.Content,
			URL:     result.URL,
			Source:  t.Name(),
		})
	}

	return items, nil
}
