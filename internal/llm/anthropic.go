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

// claudeAPIURL is the Claude Messages API endpoint.
const claudeAPIURL = "https://api.anthropic.com/v1/messages"

// claudeMaxTokens bounds the length of a Claude response.
const claudeMaxTokens = 4096

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends the system instruction as the Claude system prompt and the
// user instruction as the single user turn. Text blocks are concatenated.
func (c *ClaudeBackend) Complete(ctx context.Context, r Request) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", errors.New("claude: API key is missing")
	}

	url := c.BaseURL
	if url == "" {
		url = claudeAPIURL
	}

	req, err := httputil.NewJSONRequest(ctx, url, claudeRequest{
		Model:       r.Model,
		MaxTokens:   claudeMaxTokens,
		System:      r.System,
		Messages:    []claudeMessage{{Role: "user", Content: r.User}},
		Temperature: r.Temperature,
		TopP:        r.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("claude: %w", err)
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	var resp claudeResponse
	if err := httputil.DoJSON(c.Client, "claude", req, &resp); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text content in Claude API response")
	}
	return b.String(), nil
}
