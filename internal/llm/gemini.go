// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiBackend calls the Gemini API through the genai SDK.
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a genai client for the Gemini API. baseURL is
// empty in production and points at a test server in tests.
func NewGeminiBackend(ctx context.Context, apiKey, baseURL string, httpClient *http.Client) (*GeminiBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: API key is missing")
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

// Complete sends the user instruction as content and the system instruction
// as the Gemini system instruction.
func (g *GeminiBackend) Complete(ctx context.Context, r Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(r.Temperature)),
		TopP:        genai.Ptr(float32(r.TopP)),
	}
	if r.System != "" {
		// System instruction uses the user role.
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: r.System}},
			Role:  "user",
		}
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: r.User}},
		Role:  "user",
	}}

	resp, err := g.client.Models.GenerateContent(ctx, r.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", errors.New("gemini returned no text")
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", errors.New("gemini returned no text")
	}
	return b.String(), nil
}
