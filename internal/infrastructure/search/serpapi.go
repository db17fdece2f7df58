package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

const defaultSerpAPIBaseURL = "https://serpapi.com"

// SerpAPI implements the SearchProvider interface using SerpAPI's
// Google engine.
type SerpAPI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerpAPI creates a new SerpAPI search provider.
func NewSerpAPI(apiKey string) *SerpAPI {
	return &SerpAPI{
		apiKey:  apiKey,
		baseURL: defaultSerpAPIBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies the provider in evidence source labels.
func (s *SerpAPI) Name() string {
	return "SerpAPI"
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

// Search queries SerpAPI and returns up to count evidence items from
// the organic results.
func (s *SerpAPI) Search(ctx context.Context, query string, count int) ([]entities.EvidenceItem, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(count))
	params.Set("safe", "active")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling serpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned status %d", resp.StatusCode)
	}

	var parsed serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	items := make([]entities.EvidenceItem, 0, len(parsed.OrganicResults))
	for _, result := range parsed.OrganicResults {
		if len(items) >= count {
			break
		}
		items = append(items, entities.EvidenceItem{
			Title:   result.Title,
			Snippet: result.Snippet,
			URL:     result.Link,
			Source:  s.Name(),
		})
	}

	return items, nil
}
