package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration. Environment variable names
// are resolved by the config package.
type Config struct {
	// Provider selects which LLM provider to use. Empty disables LLM
	// features.
	Provider string `envconfig:"GRADELENS_LLM_PROVIDER" yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single narrative generation, retries included.
	Timeout time.Duration `envconfig:"GRADELENS_LLM_TIMEOUT" yaml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `envconfig:"GRADELENS_ANTHROPIC_API_KEY" yaml:"api_key"`
	Model   string `envconfig:"GRADELENS_ANTHROPIC_MODEL" yaml:"model"`
	BaseURL string `envconfig:"GRADELENS_ANTHROPIC_BASE_URL" yaml:"base_url"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `envconfig:"GRADELENS_OPENAI_API_KEY" yaml:"api_key"`
	Model   string `envconfig:"GRADELENS_OPENAI_MODEL" yaml:"model"`
	BaseURL string `envconfig:"GRADELENS_OPENAI_BASE_URL" yaml:"base_url"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `envconfig:"GRADELENS_GEMINI_API_KEY" yaml:"api_key"`
	Model   string `envconfig:"GRADELENS_GEMINI_MODEL" yaml:"model"`
	BaseURL string `envconfig:"GRADELENS_GEMINI_BASE_URL" yaml:"base_url"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `envconfig:"GRADELENS_OPENROUTER_API_KEY" yaml:"api_key"`
	Model   string `envconfig:"GRADELENS_OPENROUTER_MODEL" yaml:"model"`
	BaseURL string `envconfig:"GRADELENS_OPENROUTER_BASE_URL" yaml:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `envconfig:"GRADELENS_LLM_MAX_ATTEMPTS" yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with LLM features disabled and sensible
// per-provider defaults.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "anthropic/claude-haiku-4.5"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Discover fills in a provider from the vendors' standard API key
// variables when none is configured. It reports whether a provider is set
// afterwards.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		return true
	}
	candidates := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &c.Anthropic.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &c.OpenAI.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &c.Gemini.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &c.OpenRouter.APIKey},
	}
	for _, p := range candidates {
		if k := os.Getenv(p.env); k != "" {
			c.Provider = p.provider
			if *p.key == "" {
				*p.key = k
			}
			return true
		}
	}
	return false
}

// Validate checks the retry settings and that the selected provider has its
// required API key set.
func (c Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be at least 1")
	}
	switch c.Provider {
	case "", ProviderMock:
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("GRADELENS_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("GRADELENS_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GRADELENS_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("GRADELENS_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
