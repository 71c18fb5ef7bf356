// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the completion providers used by the research and
// drafting agents behind a single Completer interface. Each call is one
// request/response round trip with no retry.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Request is one completion call: a system instruction, a user instruction
// and the sampling parameters.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float64
	TopP        float64
}

// Completer returns the text a language model produces for a request.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the Completer selected by cfg.Provider. A nil client gets one
// with cfg.Timeout.
func New(ctx context.Context, cfg types.AIConfig, client *http.Client) (Completer, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	switch cfg.Provider {
	case types.ProviderGitHub, "":
		return &GitHubBackend{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, UserAgent: cfg.UserAgent, Client: client}, nil
	case types.ProviderAnthropic:
		return &ClaudeBackend{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Client: client}, nil
	case types.ProviderGemini:
		return NewGeminiBackend(ctx, cfg.APIKey, cfg.BaseURL, client)
	default:
		return nil, fmt.Errorf("unknown completion provider %q: use github, anthropic, or gemini", cfg.Provider)
	}
}
