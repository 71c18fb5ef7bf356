// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries a web search provider and normalizes its results
// into types.SearchResult records for the research agent.
package search

import (
	"context"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// DefaultMaxResults is the result bound used when none is configured.
const DefaultMaxResults = 5

// Searcher runs one web search. Implementations do not retry; any failure
// is returned to the caller unchanged in kind.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.SearchResult, error)
}

// Normalize trims whitespace from every field, drops results that carry
// neither a URL nor any content, removes repeated URLs (first occurrence
// wins) and caps the list at max when max is positive. The returned slice
// is never nil.
func Normalize(results []types.SearchResult, max int) []types.SearchResult {
	out := make([]types.SearchResult, 0, len(results))
	seen := make(map[string]bool)

	for _, r := range results {
		r.Title = collapseSpace(r.Title)
		r.URL = strings.TrimSpace(r.URL)
		r.Content = strings.TrimSpace(r.Content)

		if r.URL == "" && r.Content == "" {
			continue
		}
		if r.URL != "" {
			key := urlKey(r.URL)
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		out = append(out, r)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// urlKey folds trivially different spellings of the same address together.
func urlKey(u string) string {
	u = strings.ToLower(u)
	u = strings.TrimSuffix(u, "/")
	if i := strings.Index(u, "#"); i >= 0 {
		u = u[:i]
	}
	return u
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
