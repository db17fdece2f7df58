package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

const defaultDuckDuckGoBaseURL = "https://html.duckduckgo.com"

// DuckDuckGo implements the SearchProvider interface by scraping the
// HTML endpoint. It needs no API key, which makes it the always-on
// fallback provider.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
}

// NewDuckDuckGo creates a new DuckDuckGo search provider.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		baseURL: defaultDuckDuckGoBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Name identifies the provider in evidence source labels.
func (d *DuckDuckGo) Name() string {
	return "DuckDuckGo"
}

// Search queries the DuckDuckGo HTML endpoint and returns up to count
// evidence items parsed from the result list.
func (d *DuckDuckGo) Search(ctx context.Context, query string, count int) ([]entities.EvidenceItem, error) {
	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/html/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling duckduckgo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var items []entities.EvidenceItem
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(items) >= count {
			return false
		}

		anchor := sel.Find(".result__a").First()
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return true
		}

		href, _ := anchor.Attr("href")
		items = append(items, entities.EvidenceItem{
			Title:   title,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			URL:     resolveRedirect(href),
			Source:  d.Name(),
		})
		return true
	})

	return items, nil
}

// resolveRedirect unwraps DuckDuckGo's redirect links, which carry the
// destination in the uddg query parameter.
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}

	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}

	// Protocol-relative redirect links still need a scheme.
	if parsed.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}

	return href
}
