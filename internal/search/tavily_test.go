// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-research/pkg/types"
)

func newTestTavily(url string) *Tavily {
	return NewTavily(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test/0.1"},
		APIKey:     "tvly-test",
		BaseURL:    url,
		Depth:      "basic",
	})
}

func TestTavilySearch(t *testing.T) {
	var got tavilyRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"query":"capital of france","results":[
			{"title":"France","url":"https://example.com","content":"Paris is the capital...","score":0.98},
			{"title":"France dup","url":"https://example.com/","content":"dup","score":0.4}
		]}`)
	}))
	defer ts.Close()

	results, err := newTestTavily(ts.URL).Search(context.Background(), "capital of france", 5)
	require.NoError(t, err)

	assert.Equal(t, "capital of france", got.Query)
	assert.Equal(t, 5, got.MaxResults)
	assert.Equal(t, "basic", got.SearchDepth)

	require.Len(t, results, 1)
	assert.Equal(t, types.SearchResult{
		Title:   "France",
		URL:     "https://example.com",
		Content: "Paris is the capital...",
		Score:   0.98,
	}, results[0])
}

func TestTavilySearchDefaultsMaxResults(t *testing.T) {
	var got tavilyRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer ts.Close()

	results, err := newTestTavily(ts.URL).Search(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
	assert.Equal(t, DefaultMaxResults, got.MaxResults)
}

func TestTavilySearchErrors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		tv := newTestTavily("http://127.0.0.1:0")
		tv.APIKey = " "
		_, err := tv.Search(context.Background(), "q", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key is missing")
	})

	t.Run("http error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusForbidden)
		}))
		defer ts.Close()

		_, err := newTestTavily(ts.URL).Search(context.Background(), "q", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tavily returned 403")
	})

	t.Run("connection refused", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := ts.URL
		ts.Close()

		_, err := newTestTavily(url).Search(context.Background(), "q", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "calling tavily")
	})
}
