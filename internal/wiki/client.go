// Package wiki queries the MediaWiki search API and turns the first hit
// into a short brand description.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/metrics"
)

// SearchResult is one hit from the search API.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type searchResponse struct {
	Query struct {
		Search []SearchResult `json:"search"`
	} `json:"query"`
}

// Client is a MediaWiki search API client.
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a Client from cfg.
func NewClient(cfg config.WikiConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", cfg.UserAgent).
			SetHeader("Accept", "application/json"),
		baseURL: cfg.BaseURL,
	}
}

// Search returns the first result for query, or nil when there is none.
func (c *Client) Search(ctx context.Context, query string) (result *SearchResult, err error) {
	start := time.Now()
	defer func() { metrics.Upstream("wiki", start, err) }()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":   "query",
			"list":     "search",
			"srsearch": query,
			"utf8":     "",
			"format":   "json",
			"srlimit":  "1",
		}).
		Get(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("wiki search request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("wiki search returned status %d: %s", resp.StatusCode(), bodyPreview(resp.String(), 200))
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to parse wiki search response: %w", err)
	}
	log.Debug().
		Str("query", query).
		Int("results", len(body.Query.Search)).
		Dur("elapsed", time.Since(start)).
		Msg("Wiki search complete")

	if len(body.Query.Search) == 0 {
		return nil, nil
	}
	return &body.Query.Search[0], nil
}

// bodyPreview keeps the first n characters of s.
func bodyPreview(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i] + "..."
		}
		count++
	}
	return s
}
