// Package openai provides an LLMClient implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/infrastructure/config"
)

const verdictPrompt = `You are an expert fact-checker analyzing news claims for truthfulness. Analyze the claim based ONLY on the provided search results.

CLAIM TO ANALYZE:
"%s"

GROUND TRUTH (SEARCH RESULTS):
%s

INSTRUCTIONS:
1. Assess the likely truthfulness of the claim based ONLY on the provided information
2. Provide one of these verdicts: "Likely True", "Likely False", "Uncertain/Needs More Info"
3. Provide a brief explanation for your verdict
4. If search results are insufficient, indicate this in your verdict
5. Give higher priority to government sources, then news sources, then other sources

Return ONLY a valid JSON object with "verdict" and "explanation" fields, no other text.`

const refinePrompt = `You are an expert fact-checker. Refine the following news claim to make it more suitable for web search while preserving its core meaning.

ORIGINAL CLAIM:
%s

INSTRUCTIONS:
1. Break the claim into specific, verifiable elements: exact numbers, time periods, locations, named entities
2. Rewrite the claim to be more searchable, adding specific dates, full location names and exact numbers where the original mentions them
3. Format the refined claim as a question starting with "Is it true that..."
4. Do not add information that wasn't in the original claim

Return ONLY a valid JSON object with a "refined_claim" field, no other text.`

const timeDependencyPrompt = `You are an expert fact-checker. Determine whether the truth of the following claim can change over time.

CLAIM:
%s

INSTRUCTIONS:
1. A claim is time-dependent when its truthfulness depends on when it is evaluated (prices, weather, office holders, current statistics)
2. A claim is not time-dependent when it is a stable fact (historical events, physical constants, geography)
3. If time-dependent, estimate how many days a verdict stays reliable before it should be re-checked
4. If not time-dependent, use 0 for the duration

Return ONLY a valid JSON object with "is_time_dependent" (boolean) and "dependency_duration_days" (integer) fields, no other text.`

// Client implements the LLMClient interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI LLM client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Classify assesses the truthfulness of a claim against the gathered
// evidence and returns a verdict with a short explanation.
func (c *Client) Classify(ctx context.Context, claimText string, evidence []entities.EvidenceItem) (entities.Verdict, string, error) {
	prompt := fmt.Sprintf(verdictPrompt, claimText, evidenceSummary(evidence))

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return entities.VerdictError, "", err
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return entities.VerdictError, "", fmt.Errorf("parsing verdict JSON: %w (response: %s)", err, content)
	}

	return normalizeVerdict(raw.Verdict), raw.Explanation, nil
}

// RefineQuery rewrites a claim into a search-friendly question.
func (c *Client) RefineQuery(ctx context.Context, claimText string) (string, error) {
	prompt := fmt.Sprintf(refinePrompt, claimText)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	var raw rawRefinedClaim
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return "", fmt.Errorf("parsing refined claim JSON: %w (response: %s)", err, content)
	}

	if strings.TrimSpace(raw.RefinedClaim) == "" {
		return "", errors.New("empty refined claim")
	}

	return raw.RefinedClaim, nil
}

// AssessTimeDependency determines whether a claim's truth can change
// over time and for how many days a verdict stays reliable.
func (c *Client) AssessTimeDependency(ctx context.Context, claimText string) (entities.TimeDependency, error) {
	prompt := fmt.Sprintf(timeDependencyPrompt, claimText)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return entities.TimeDependency{}, err
	}

	var raw rawTimeDependency
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return entities.TimeDependency{}, fmt.Errorf("parsing time dependency JSON: %w (response: %s)", err, content)
	}

	return entities.TimeDependency{
		IsTimeDependent: raw.IsTimeDependent,
		DurationDays:    raw.DurationDays,
	}, nil
}

// complete sends a single-prompt chat completion and returns the
// cleaned response content.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return cleanJSONResponse(resp.Choices[0].Message.Content), nil
}

// evidenceSummary renders search results into the numbered list format
// the verdict prompt expects.
func evidenceSummary(evidence []entities.EvidenceItem) string {
	if len(evidence) == 0 {
		return "No web search results were available for analysis.\n"
	}

	var b strings.Builder
	b.WriteString("Based on the following web search results from multiple sources:\n\n")
	for i, item := range evidence {
		title := item.Title
		if title == "" {
			title = "No title"
		}
		snippet := item.Snippet
		if snippet == "" {
			snippet = "No content"
		}
		source := item.Source
		if source == "" {
			source = "Unknown"
		}
		fmt.Fprintf(&b, "%d. Title: %s\n   Content: %s\n   Source: %s\n\n", i+1, title, snippet, source)
	}

	return b.String()
}

// rawVerdict is the JSON structure for verdict responses.
type rawVerdict struct {
	Verdict     string `json:"verdict"`
	Explanation string `json:"explanation"`
}

// rawRefinedClaim is the JSON structure for refined claim responses.
type rawRefinedClaim struct {
	RefinedClaim string `json:"refined_claim"`
}

// rawTimeDependency is the JSON structure for time dependency responses.
type rawTimeDependency struct {
	IsTimeDependent bool `json:"is_time_dependent"`
	DurationDays    int  `json:"dependency_duration_days"`
}

// normalizeVerdict maps model output onto the known verdict set.
// Anything unrecognized becomes Uncertain rather than a new verdict.
func normalizeVerdict(verdict string) entities.Verdict {
	switch strings.TrimSpace(verdict) {
	case string(entities.VerdictLikelyTrue):
		return entities.VerdictLikelyTrue
	case string(entities.VerdictLikelyFalse):
		return entities.VerdictLikelyFalse
	case string(entities.VerdictError):
		return entities.VerdictError
	default:
		return entities.VerdictUncertain
	}
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
