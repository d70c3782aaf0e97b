package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"summary-pipeline/config"
	"summary-pipeline/domain"
)

type generatePayload struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	NumPredict    int      `json:"num_predict"`
	RepeatPenalty float64  `json:"repeat_penalty"`
	Stop          []string `json:"stop"`
}

type generateResponse struct {
	Model      string `json:"model"`
	Response   string `json:"response"`
	DoneReason string `json:"done_reason"`
	Done       bool   `json:"done"`
}

const promptTemplate = `You are a professional editorial assistant for an industry news publication. Summarize the following content document.

RULES:
- Neutral, professional tone. No speculation, no opinion.
- Extract key insights and, when the text contains them, notable quotes.
- Derive tags from the content and its sector/region/topic metadata.
- Respond with a single valid JSON object and nothing else. No prose, no code fences.

OUTPUT SHAPE (exact keys):
{
  "shortSummary": "1-2 sentence summary",
  "mediumSummary": "1-2 paragraph summary",
  "keyPoints": ["point", ...],
  "tags": ["tag", ...],
  "sentiment": "positive|neutral|negative",
  "topics": ["topic", ...]
}

CONTENT DOCUMENT:
---
%s
---
`

// SummarizerClient calls the LLM generation API and enforces the structured
// summary output contract on what comes back.
type SummarizerClient struct {
	cfg        config.SummarizerConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSummarizerClient creates a summarizer API client from configuration.
func NewSummarizerClient(cfg config.SummarizerConfig, logger *slog.Logger) *SummarizerClient {
	return &SummarizerClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Summarize sends the cleaned content to the model and parses the completion
// into a validated Summary. Output that does not satisfy the schema is
// reported as domain.ErrInvalidSummary so the caller can retry the step.
func (c *SummarizerClient) Summarize(ctx context.Context, cleaned *domain.CleanedContent) (*domain.Summary, error) {
	document, err := json.MarshalIndent(cleaned, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cleaned content: %w", err)
	}

	payload := generatePayload{
		Model:  c.cfg.Model,
		Prompt: fmt.Sprintf(promptTemplate, string(document)),
		Stream: false,
		Options: generateOptions{
			// Pinned low for reproducibility across retries
			Temperature:   c.cfg.Temperature,
			TopP:          0.9,
			NumPredict:    c.cfg.MaxTokens,
			RepeatPenalty: 1.0,
			Stop:          []string{"<|user|>", "<|system|>"},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := c.cfg.Host + c.cfg.APIPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.DebugContext(ctx, "calling summarizer API",
		"api_url", apiURL,
		"model", c.cfg.Model,
		"max_tokens", c.cfg.MaxTokens)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSummarizerUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: status %s", domain.ErrSummarizerUnavailable, resp.Status)
		}
		return nil, fmt.Errorf("summarizer API request failed with status %s: %s", resp.Status, string(body))
	}

	var apiResponse generateResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	if !apiResponse.Done {
		c.logger.WarnContext(ctx, "received incomplete response from summarizer",
			"done_reason", apiResponse.DoneReason)
	}

	summary, err := ParseSummary(apiResponse.Response)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "summary generated",
		"short_length", len(summary.ShortSummary),
		"key_points", len(summary.KeyPoints))

	return summary, nil
}

// ParseSummary extracts the JSON object from a raw model completion and
// validates it against the summary schema. Models occasionally wrap their
// output in code fences or stray prose despite the prompt, so the parser
// slices from the first '{' to the last '}' before decoding.
func ParseSummary(raw string) (*domain.Summary, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in model output", domain.ErrInvalidSummary)
	}
	cleaned = cleaned[start : end+1]

	var summary domain.Summary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSummary, err)
	}

	if err := summary.Validate(); err != nil {
		return nil, err
	}

	return &summary, nil
}
