// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs a web search for a query and asks a language model
// to structure the results into findings.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/pkg/types"
)

// objectPattern greedily spans the first '{' to the last '}'.
var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Agent combines one search call with one structuring completion.
type Agent struct {
	searcher    search.Searcher
	completer   llm.Completer
	model       string
	temperature float64
	topP        float64
	maxResults  int
	log         *slog.Logger
}

// New creates a research agent. Settings are copied from cfg and do not
// change for the agent's lifetime.
func New(cfg types.Config, searcher search.Searcher, completer llm.Completer, log *slog.Logger) *Agent {
	maxResults := cfg.Search.MaxResults
	if maxResults <= 0 {
		maxResults = search.DefaultMaxResults
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Agent{
		searcher:    searcher,
		completer:   completer,
		model:       cfg.AI.Model,
		temperature: cfg.AI.Temperature,
		topP:        cfg.AI.TopP,
		maxResults:  maxResults,
		log:         log,
	}
}

// Research searches for query and structures the results. Search and
// completion errors are returned as is; an unparseable model response is
// not an error and yields text findings.
func (a *Agent) Research(ctx context.Context, query string) (types.Findings, error) {
	results, err := a.searcher.Search(ctx, query, a.maxResults)
	if err != nil {
		return types.Findings{}, err
	}
	results = search.Normalize(results, a.maxResults)
	a.log.Debug("search complete", "query", query, "results", len(results))

	payload, err := json.Marshal(results)
	if err != nil {
		return types.Findings{}, fmt.Errorf("serializing search results: %w", err)
	}

	user, err := renderUserPrompt(query, string(payload))
	if err != nil {
		return types.Findings{}, fmt.Errorf("rendering prompt: %w", err)
	}

	text, err := a.completer.Complete(ctx, llm.Request{
		System:      systemInstruction,
		User:        user,
		Model:       a.model,
		Temperature: a.temperature,
		TopP:        a.topP,
	})
	if err != nil {
		return types.Findings{}, err
	}

	findings := ParseFindings(text)
	_, hasMain := findings.MainFindings()
	_, hasNotes := findings.DetailedNotes()
	a.log.Debug("findings parsed",
		"kind", findings.Kind(),
		"main_findings", hasMain,
		"detailed_notes", hasNotes,
		"sources", len(findings.Sources()),
	)
	return findings, nil
}

// ParseFindings extracts a JSON object from free-form model output. When the
// text holds both braces, the span from the first '{' to the last '}' (with
// newlines flattened to spaces) is decoded as an object. Anything else,
// including malformed JSON, falls back to text findings holding the
// original response verbatim.
func ParseFindings(text string) types.Findings {
	if !strings.Contains(text, "{") || !strings.Contains(text, "}") {
		return types.TextFindings(text)
	}

	candidate := objectPattern.FindString(strings.ReplaceAll(text, "\n", " "))
	if candidate == "" {
		return types.TextFindings(text)
	}

	fields, err := decodeObject(candidate)
	if err != nil {
		return types.TextFindings(text)
	}
	return types.StructuredFindings(fields)
}

// decodeObject decodes s as exactly one JSON object. Numbers are kept as
// json.Number so large integers survive unchanged.
func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("not a JSON object")
	}
	var rest json.RawMessage
	if err := dec.Decode(&rest); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON object")
	}
	return fields, nil
}
