// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the remote collaborators.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. The workflow itself enforces none.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Provider names a completion backend.
type Provider string

const (
	ProviderGitHub    Provider = "github"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// AIConfig holds settings for the completion provider shared by the
// research and drafting agents.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the completion backend (default github).
	Provider Provider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "openai/gpt-4.1").
	Model string `json:"model" yaml:"model"`

	// APIKey is the credential for the completion provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Temperature and TopP are sent with every completion request.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	TopP        float64 `json:"top_p" yaml:"top_p"`
}

// SearchConfig holds settings for the web search provider.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the credential for the search provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the search endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxResults bounds the number of results requested (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Depth is the provider search depth: basic or advanced.
	Depth string `json:"depth" yaml:"depth"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	// Dir is the directory for JSON and HTML result files (default ./data).
	Dir string `json:"dir" yaml:"dir"`

	// HistoryDB is the SQLite run-history path (default <Dir>/history.db).
	HistoryDB string `json:"history_db" yaml:"history_db"`

	// SaveHTML enables the HTML report for completed runs.
	SaveHTML bool `json:"save_html" yaml:"save_html"`
}

// Config groups everything read from process-wide configuration at startup.
type Config struct {
	AI       AIConfig     `json:"ai" yaml:"ai"`
	Search   SearchConfig `json:"search" yaml:"search"`
	Output   OutputConfig `json:"output" yaml:"output"`
	LogLevel string       `json:"log_level" yaml:"log_level"`
}
