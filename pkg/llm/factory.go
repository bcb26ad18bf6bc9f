package llm

import (
	"context"
	"fmt"
	"strings"
)

// New builds the provider named in cfg. Providers that need a key return ErrNoCredentials
// without one so the caller can decide whether to fall back to a static reply.
func New(ctx context.Context, cfg Config) (TextGenerator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", provider, ErrNoCredentials)
		}
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", provider, ErrNoCredentials)
		}
		return NewGemini(ctx, cfg.APIKey, cfg.Model)

	case ProviderArk:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", provider, ErrNoCredentials)
		}
		return NewArk(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)

	case ProviderCompatible:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("compatible provider requires a base url")
		}
		return NewCompatible(cfg.BaseURL, cfg.APIKey, cfg.Model), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
