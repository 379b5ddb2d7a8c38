// Package retrieval talks to the document retrieval sidecar. The sidecar owns
// the vector index; this client only submits text and asks questions.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config describes how to reach the retrieval sidecar.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client proxies retrieval requests to the sidecar service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient validates the configuration and returns a ready-to-use client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("retrieval: base URL required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type queryResponse struct {
	Chunks []string `json:"chunks"`
}

// Query returns the document context relevant to the question, as one string
// with chunks separated by blank lines. An empty string means nothing
// relevant was found.
func (c *Client) Query(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", errors.New("retrieval: question required")
	}
	data, err := c.doRequest(ctx, http.MethodPost, "/v1/documents/query", map[string]any{
		"question": question,
	})
	if err != nil {
		return "", err
	}
	var out queryResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("retrieval: decode response failed: %w", err)
	}
	return strings.Join(out.Chunks, "\n\n"), nil
}

// Ingest submits document text for indexing. No-op when docs is empty.
func (c *Client) Ingest(ctx context.Context, docs []string) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/v1/documents", map[string]any{
		"documents": docs,
	})
	return err
}

type countResponse struct {
	Count int `json:"count"`
}

// DocumentCount reports how many document chunks the sidecar has indexed.
func (c *Client) DocumentCount(ctx context.Context) (int, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/v1/documents/count", nil)
	if err != nil {
		return 0, err
	}
	var out countResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("retrieval: decode response failed: %w", err)
	}
	return out.Count, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("retrieval: failed to encode payload: %w", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("retrieval: request build failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("retrieval: read response failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("retrieval: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	return data, nil
}
