// Package driver contains HTTP clients for the external collaborators:
// the content store data API and the summarizer generation API.
package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"summary-pipeline/config"
	"summary-pipeline/domain"
)

// ContentStoreClient talks to the content store data API. Queries use the
// store's query endpoint with parameter binding; writes go through the
// mutation endpoint (createOrReplace and patch, both atomic per document).
type ContentStoreClient struct {
	baseURL    string
	dataset    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewContentStoreClient creates a content store client from configuration.
func NewContentStoreClient(cfg config.ContentStoreConfig, logger *slog.Logger) *ContentStoreClient {
	return &ContentStoreClient{
		baseURL: cfg.BaseURL,
		dataset: cfg.Dataset,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type mutateRequest struct {
	Mutations []map[string]any `json:"mutations"`
}

type storeErrorResponse struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

// Query runs a store query with the given parameters and decodes the result
// into out. A null result (document absent) leaves out untouched and returns
// domain.ErrContentNotFound.
func (c *ContentStoreClient) Query(ctx context.Context, query string, params map[string]string, out any) error {
	values := url.Values{}
	values.Set("query", query)
	for k, v := range params {
		// Parameters are bound as JSON values, string params are quoted
		values.Set("$"+k, fmt.Sprintf("%q", v))
	}

	endpoint := fmt.Sprintf("%s/v1/data/query/%s?%s", c.baseURL, c.dataset, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create query request: %w", err)
	}
	c.addAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("content store query failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read query response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("content store query returned %s: %s", resp.Status, storeErrorDescription(body))
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return fmt.Errorf("failed to parse query response: %w", err)
	}

	if len(qr.Result) == 0 || string(qr.Result) == "null" {
		return domain.ErrContentNotFound
	}

	if err := json.Unmarshal(qr.Result, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedContent, err)
	}

	return nil
}

// CreateOrReplace upserts a document by its explicit id. The operation is
// idempotent: re-running it replaces the document in place.
func (c *ContentStoreClient) CreateOrReplace(ctx context.Context, doc any) error {
	return c.mutate(ctx, mutateRequest{
		Mutations: []map[string]any{
			{"createOrReplace": doc},
		},
	})
}

// PatchSet applies a partial update to the document with the given id.
func (c *ContentStoreClient) PatchSet(ctx context.Context, docID string, fields map[string]any) error {
	return c.mutate(ctx, mutateRequest{
		Mutations: []map[string]any{
			{"patch": map[string]any{
				"id":  docID,
				"set": fields,
			}},
		},
	})
}

func (c *ContentStoreClient) mutate(ctx context.Context, mr mutateRequest) error {
	payload, err := json.Marshal(mr)
	if err != nil {
		return fmt.Errorf("failed to marshal mutations: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/data/mutate/%s", c.baseURL, c.dataset)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.addAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("content store mutation failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read mutate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("content store mutation returned %s: %s", resp.Status, storeErrorDescription(body))
	}

	return nil
}

func (c *ContentStoreClient) addAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func storeErrorDescription(body []byte) string {
	var er storeErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Description != "" {
		return er.Error.Description
	}
	return string(body)
}
