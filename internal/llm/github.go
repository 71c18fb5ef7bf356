// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/deep-research/internal/httputil"
)

// githubModelsURL is the GitHub Models inference endpoint.
const githubModelsURL = "https://models.github.ai/inference"

// GitHubBackend calls the OpenAI-compatible chat completions API served by
// GitHub Models.
type GitHubBackend struct {
	APIKey    string
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the system and user instructions as a two-message chat.
func (g *GitHubBackend) Complete(ctx context.Context, r Request) (string, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return "", errors.New("github models: token is missing")
	}

	base := g.BaseURL
	if base == "" {
		base = githubModelsURL
	}

	req, err := httputil.NewJSONRequest(ctx, strings.TrimSuffix(base, "/")+"/chat/completions", chatRequest{
		Model: r.Model,
		Messages: []chatMessage{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.User},
		},
		Temperature: r.Temperature,
		TopP:        r.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("github models: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	var resp chatResponse
	if err := httputil.DoJSON(g.Client, "github models", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("github models returned no choices")
	}
	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", errors.New("github models returned empty content")
	}
	return text, nil
}
