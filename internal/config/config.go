// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the process-wide settings (model, credentials,
// output locations) into a types.Config. Values come from viper (config file
// and DEEP_RESEARCH_* variables), then the provider environment variables,
// then the .secrets/ directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/secrets"
	"github.com/pdiddy/deep-research/pkg/types"
)

// EnvPrefix is the prefix for environment overrides of config keys
// (e.g. DEEP_RESEARCH_AI_MODEL for ai.model).
const EnvPrefix = "DEEP_RESEARCH"

const (
	defaultModelGitHub    = "openai/gpt-4.1"
	defaultModelAnthropic = "claude-sonnet-4-5"
	defaultModelGemini    = "gemini-2.5-flash"
	defaultTimeout        = 60 * time.Second
	defaultUserAgent      = "deep-research/0.1"
	defaultOutputDir      = "./data"
	historyDBFile         = "history.db"
)

// SetDefaults registers default values and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", string(types.ProviderGitHub))
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.top_p", 1.0)
	v.SetDefault("ai.timeout", defaultTimeout)
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.depth", "basic")
	v.SetDefault("search.timeout", defaultTimeout)
	v.SetDefault("output.dir", defaultOutputDir)
	v.SetDefault("output.save_html", true)
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load builds a Config from v, falling back to the provider environment
// variables and then to the loaded secrets for credentials. The result is
// not validated; call Validate before constructing agents.
func Load(v *viper.Viper, s map[string]string) (types.Config, error) {
	provider := types.Provider(strings.ToLower(v.GetString("ai.provider")))

	cfg := types.Config{
		AI: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("ai.timeout"),
				UserAgent: defaultUserAgent,
			},
			Provider:    provider,
			Model:       v.GetString("ai.model"),
			APIKey:      v.GetString("ai.api_key"),
			BaseURL:     v.GetString("ai.base_url"),
			Temperature: v.GetFloat64("ai.temperature"),
			TopP:        v.GetFloat64("ai.top_p"),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("search.timeout"),
				UserAgent: defaultUserAgent,
			},
			APIKey:     v.GetString("search.api_key"),
			BaseURL:    v.GetString("search.base_url"),
			MaxResults: v.GetInt("search.max_results"),
			Depth:      v.GetString("search.depth"),
		},
		Output: types.OutputConfig{
			Dir:       v.GetString("output.dir"),
			HistoryDB: v.GetString("output.history_db"),
			SaveHTML:  v.GetBool("output.save_html"),
		},
		LogLevel: v.GetString("log_level"),
	}

	switch provider {
	case types.ProviderGitHub:
		cfg.AI.Model = firstNonEmpty(cfg.AI.Model, os.Getenv("GITHUB_MODEL"), defaultModelGitHub)
		cfg.AI.APIKey = firstNonEmpty(cfg.AI.APIKey, os.Getenv("GITHUB_TOKEN"), secrets.Lookup(s, secrets.GitHubToken))
	case types.ProviderAnthropic:
		cfg.AI.Model = firstNonEmpty(cfg.AI.Model, defaultModelAnthropic)
		cfg.AI.APIKey = firstNonEmpty(cfg.AI.APIKey, os.Getenv("ANTHROPIC_API_KEY"), secrets.Lookup(s, secrets.AnthropicAPIKey))
	case types.ProviderGemini:
		cfg.AI.Model = firstNonEmpty(cfg.AI.Model, defaultModelGemini)
		cfg.AI.APIKey = firstNonEmpty(cfg.AI.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"), secrets.Lookup(s, secrets.GeminiAPIKey))
	default:
		return types.Config{}, fmt.Errorf("unknown provider %q: use github, anthropic, or gemini", provider)
	}

	cfg.Search.APIKey = firstNonEmpty(cfg.Search.APIKey, os.Getenv("TAVILY_API_KEY"), secrets.Lookup(s, secrets.TavilyAPIKey))

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Output.HistoryDB == "" {
		cfg.Output.HistoryDB = filepath.Join(cfg.Output.Dir, historyDBFile)
	}

	return cfg, nil
}

// Validate reports every missing credential or out-of-range setting.
func Validate(cfg types.Config) error {
	var errs []error
	if cfg.AI.APIKey == "" {
		errs = append(errs, fmt.Errorf("no API key for completion provider %q", cfg.AI.Provider))
	}
	if cfg.AI.Model == "" {
		errs = append(errs, errors.New("no model configured"))
	}
	if cfg.Search.APIKey == "" {
		errs = append(errs, errors.New("no Tavily API key: set TAVILY_API_KEY or .secrets/tavily-api-key"))
	}
	if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %.2f out of range [0,2]", cfg.AI.Temperature))
	}
	if cfg.AI.TopP <= 0 || cfg.AI.TopP > 1 {
		errs = append(errs, fmt.Errorf("top_p %.2f out of range (0,1]", cfg.AI.TopP))
	}
	if cfg.Search.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("search max_results must be positive, got %d", cfg.Search.MaxResults))
	}
	return errors.Join(errs...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
