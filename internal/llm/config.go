package llm

import (
	"fmt"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects the tutor model. It is filled from the environment by
// the config package.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single explanation request, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI-compatible APIs
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures. Waits
// double from InitialWait up to MaxWait.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultConfig uses the small Anthropic model with three attempts.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-001"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
		},
		Timeout: 45 * time.Second,
	}
}

// apiKey returns the key of the selected provider and the variable it
// is read from. The mock provider needs none.
func (c Config) apiKey() (key, env string, known bool) {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey, "ANKIQUIZ_ANTHROPIC_API_KEY", true
	case ProviderOpenAI:
		return c.OpenAI.APIKey, "ANKIQUIZ_OPENAI_API_KEY", true
	case ProviderGemini:
		return c.Gemini.APIKey, "ANKIQUIZ_GEMINI_API_KEY", true
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey, "ANKIQUIZ_OPENROUTER_API_KEY", true
	case ProviderMock:
		return "", "", true
	}
	return "", "", false
}

// Validate checks the provider name, its API key and the retry budget.
func (c Config) Validate() error {
	key, env, known := c.apiKey()
	switch {
	case !known:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	case env != "" && key == "":
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	case c.Retry.MaxAttempts < 1:
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
