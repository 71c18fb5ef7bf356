// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/pkg/types"
)

// --- mocks ---

type mockSearcher struct {
	results  []types.SearchResult
	err      error
	gotQuery string
	gotMax   int
	calls    int
}

func (m *mockSearcher) Search(_ context.Context, query string, maxResults int) ([]types.SearchResult, error) {
	m.calls++
	m.gotQuery = query
	m.gotMax = maxResults
	return m.results, m.err
}

type mockCompleter struct {
	text  string
	err   error
	got   llm.Request
	calls int
}

func (m *mockCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	m.calls++
	m.got = req
	return m.text, m.err
}

func testConfig() types.Config {
	return types.Config{
		AI: types.AIConfig{
			Model:       "openai/gpt-4.1",
			Temperature: 0.7,
			TopP:        1.0,
		},
	}
}

// --- ParseFindings ---

func TestParseFindings(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantFields map[string]any
		wantText   string
	}{
		{
			name: "bare object",
			text: `{"main_findings": ["Paris is the capital of France"], "sources": ["https://example.com"]}`,
			wantFields: map[string]any{
				"main_findings": []any{"Paris is the capital of France"},
				"sources":       []any{"https://example.com"},
			},
		},
		{
			name: "object wrapped in prose and code fence",
			text: "Here are the findings:\n```json\n{\n  \"main_findings\": [\"a\"],\n  \"detailed_notes\": {\"history\": \"b\"}\n}\n```\nHope this helps.",
			wantFields: map[string]any{
				"main_findings":  []any{"a"},
				"detailed_notes": map[string]any{"history": "b"},
			},
		},
		{
			name:       "object without sources is kept as is",
			text:       `{"summary": "x", "count": 2}`,
			wantFields: map[string]any{"summary": "x", "count": json.Number("2")},
		},
		{
			name: "large integers keep every digit",
			text: `{"main_findings": [{"id": 12345678901234567891}], "ratio": 0.25}`,
			wantFields: map[string]any{
				"main_findings": []any{map[string]any{"id": json.Number("12345678901234567891")}},
				"ratio":         json.Number("0.25"),
			},
		},
		{
			name:     "trailing data after object",
			text:     `{"a": 1}}`,
			wantText: `{"a": 1}}`,
		},
		{
			name:     "prose without braces",
			text:     "Paris is lovely and is the capital.",
			wantText: "Paris is lovely and is the capital.",
		},
		{
			name:     "malformed json",
			text:     "Result: {main_findings: [unquoted]}",
			wantText: "Result: {main_findings: [unquoted]}",
		},
		{
			name:     "closing brace before opening brace",
			text:     "} reversed {",
			wantText: "} reversed {",
		},
		{
			name:     "greedy span across two objects is not valid json",
			text:     `{"a": 1} and {"b": 2}`,
			wantText: `{"a": 1} and {"b": 2}`,
		},
		{
			name:     "empty response",
			text:     "",
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFindings(tt.text)
			if tt.wantFields != nil {
				require.True(t, got.IsStructured(), "expected structured findings")
				assert.Equal(t, tt.wantFields, got.Fields())
				return
			}
			require.False(t, got.IsStructured(), "expected text findings")
			assert.Equal(t, tt.wantText, got.Text())
			assert.Equal(t, map[string]any{"research_text": tt.wantText}, got.Map())
		})
	}
}

// --- Agent.Research ---

func TestResearchStructured(t *testing.T) {
	s := &mockSearcher{results: []types.SearchResult{
		{Title: "France", URL: "https://example.com", Content: "Paris is the capital..."},
	}}
	c := &mockCompleter{text: `{"main_findings": ["Paris is the capital of France"], "sources": ["https://example.com"]}`}

	a := New(testConfig(), s, c, nil)
	findings, err := a.Research(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.Equal(t, "What is the capital of France?", s.gotQuery)
	assert.Equal(t, 5, s.gotMax)
	assert.Equal(t, 1, c.calls)

	require.True(t, findings.IsStructured())
	assert.Equal(t, map[string]any{
		"main_findings": []any{"Paris is the capital of France"},
		"sources":       []any{"https://example.com"},
	}, findings.Fields())

	assert.Equal(t, systemInstruction, c.got.System)
	assert.Equal(t, "openai/gpt-4.1", c.got.Model)
	assert.Equal(t, 0.7, c.got.Temperature)
	assert.Equal(t, 1.0, c.got.TopP)
	assert.Contains(t, c.got.User, "about 'What is the capital of France?'")
	assert.Contains(t, c.got.User, `"url":"https://example.com"`)
}

func TestResearchLogsFindingsShape(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := &mockCompleter{text: `{"main_findings": ["a"], "sources": ["s1", "s2"]}`}

	_, err := New(testConfig(), &mockSearcher{}, c, log).Research(context.Background(), "q")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "findings parsed")
	assert.Contains(t, out, "kind=structured")
	assert.Contains(t, out, "main_findings=true")
	assert.Contains(t, out, "detailed_notes=false")
	assert.Contains(t, out, "sources=2")
}

func TestResearchProseFallback(t *testing.T) {
	s := &mockSearcher{}
	c := &mockCompleter{text: "Paris is lovely and is the capital."}

	findings, err := New(testConfig(), s, c, nil).Research(context.Background(), "capital of France")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"research_text": "Paris is lovely and is the capital."}, findings.Map())
}

func TestResearchEmptySearchResults(t *testing.T) {
	s := &mockSearcher{results: nil}
	c := &mockCompleter{text: "No information was found."}

	findings, err := New(testConfig(), s, c, nil).Research(context.Background(), "obscure topic")
	require.NoError(t, err)
	assert.Equal(t, 1, c.calls, "model is still consulted with no search results")
	assert.True(t, strings.HasSuffix(c.got.User, ": []"))
	assert.Equal(t, "No information was found.", findings.Text())
}

func TestResearchCustomMaxResults(t *testing.T) {
	cfg := testConfig()
	cfg.Search.MaxResults = 2
	s := &mockSearcher{results: []types.SearchResult{{URL: "https://1"}, {URL: "https://2"}, {URL: "https://3"}}}
	c := &mockCompleter{text: "{}"}

	_, err := New(cfg, s, c, nil).Research(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 2, s.gotMax)
	assert.NotContains(t, c.got.User, "https://3", "results beyond the bound are dropped")
}

func TestResearchPropagatesErrors(t *testing.T) {
	searchErr := errors.New("dial tcp: connection refused")
	modelErr := errors.New("github models returned 500")

	t.Run("search error", func(t *testing.T) {
		c := &mockCompleter{text: "{}"}
		_, err := New(testConfig(), &mockSearcher{err: searchErr}, c, nil).Research(context.Background(), "q")
		assert.ErrorIs(t, err, searchErr)
		assert.Equal(t, 0, c.calls)
	})

	t.Run("model error", func(t *testing.T) {
		c := &mockCompleter{err: modelErr}
		_, err := New(testConfig(), &mockSearcher{}, c, nil).Research(context.Background(), "q")
		assert.ErrorIs(t, err, modelErr)
	})
}
