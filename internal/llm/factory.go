package llm

import (
	"context"
	"fmt"

	"github.com/cuongduong73/ankiquiz/internal/store"
)

// NewProvider builds the configured provider. Requests pass through retry,
// then event logging when events is non-nil, then the SDK.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		p = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		p = WithLogging(p, cfg.Provider, events)
	}
	return WithRetry(p, cfg.Retry), nil
}
