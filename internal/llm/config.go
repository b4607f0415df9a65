package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: anthropic, openai, gemini, openrouter
	// or mock.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration. BaseURL targets any
// OpenAI-compatible API.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// envBinding ties an environment variable to a config field.
type envBinding struct {
	key string
	dst func(c *Config) *string
}

var envBindings = []envBinding{
	{"TRAILHEAD_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"TRAILHEAD_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"TRAILHEAD_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"TRAILHEAD_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"TRAILHEAD_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"TRAILHEAD_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"TRAILHEAD_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"TRAILHEAD_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"TRAILHEAD_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"TRAILHEAD_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
}

// ConfigFromEnv overlays TRAILHEAD_* environment variables on DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := os.Getenv(b.key); v != "" {
			*b.dst(&cfg) = v
		}
	}
	return cfg
}

// vendorKeys lists the vendors' own API key variables in lookup order.
var vendorKeys = []struct {
	env      string
	provider string
	dst      func(c *Config) *string
}{
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config) *string { return &c.Gemini.APIKey }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// DiscoverConfig returns a Config for the first vendor API key found in the
// environment. It reports false when none is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, v := range vendorKeys {
		if k := os.Getenv(v.env); k != "" {
			cfg.Provider = v.provider
			*v.dst(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Resolve prefers TRAILHEAD_* settings and falls back to vendor keys.
func Resolve() (Config, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		return cfg, nil
	} else if os.Getenv("TRAILHEAD_LLM_PROVIDER") != "" {
		return Config{}, err
	}
	if found, ok := DiscoverConfig(); ok {
		return found, nil
	}
	return Config{}, fmt.Errorf("no LLM API key configured: set TRAILHEAD_LLM_PROVIDER and TRAILHEAD_<PROVIDER>_API_KEY")
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("TRAILHEAD_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
