// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deep-research workflow:
// search results, research findings, drafted answers, the workflow state
// threaded through one query, and configuration.
package types

// SearchResult is a single web search hit, normalized from whatever shape
// the search provider returns.
type SearchResult struct {
	// Title is the page title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the address of the result page.
	URL string `json:"url" yaml:"url"`

	// Content is the snippet or extracted page text.
	Content string `json:"content" yaml:"content"`

	// Score is the provider's relevance score, when it reports one.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`
}
