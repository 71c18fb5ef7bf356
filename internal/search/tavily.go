// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// tavilyAPIURL is the Tavily search endpoint.
const tavilyAPIURL = "https://api.tavily.com/search"

// Tavily searches the web through the Tavily API.
type Tavily struct {
	APIKey    string
	BaseURL   string
	Depth     string
	UserAgent string
	Client    *http.Client
}

// NewTavily builds a Tavily searcher from cfg. The HTTP client's timeout is
// the only deadline applied to a search.
func NewTavily(cfg types.SearchConfig) *Tavily {
	return &Tavily{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Depth:     cfg.Depth,
		UserAgent: cfg.UserAgent,
		Client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search posts query to Tavily and returns up to maxResults normalized results.
func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	url := t.BaseURL
	if url == "" {
		url = tavilyAPIURL
	}

	req, err := httputil.NewJSONRequest(ctx, url, tavilyRequest{
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: t.Depth,
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.APIKey)
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}

	var resp tavilyResponse
	if err := httputil.DoJSON(t.Client, "tavily", req, &resp); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, types.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}
	return Normalize(results, maxResults), nil
}
