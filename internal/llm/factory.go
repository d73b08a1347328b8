package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abhisek/gradelens/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry
// and, when eventRepo is non-nil, request logging.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, ErrNoProvider
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, eventRepo, logger)
	}
	return WithRetry(p, cfg.Retry), nil
}
