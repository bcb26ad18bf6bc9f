package prompt_fx

import (
	"context"
	"errors"

	"go.uber.org/fx"

	"gifty/internal/config"
	"gifty/internal/giftprompt"
	"gifty/internal/models/response_models"
	"gifty/internal/repositories"
	"gifty/internal/services"
	"gifty/pkg/llm"
	"gifty/pkg/logger"
	mem "gifty/pkg/memcache"
	"gifty/pkg/metrics"
	"gifty/pkg/sequence"
)

var Module = fx.Provide(
	ProvideTextGenerator,
	ProvideTokenSequence,
	ProvideSuggestionService,
	ProvideAssistantService,
)

// ProvideTextGenerator builds the configured provider. Without credentials it answers with
// sample suggestions so the rest of the app stays usable.
func ProvideTextGenerator(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (llm.TextGenerator, error) {
	generator, err := llm.New(context.Background(), llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if errors.Is(err, llm.ErrNoCredentials) {
		log.Zerolog(context.Background()).Warn().Str("provider", cfg.LLM.Provider).Msg("no API key configured, serving sample suggestions")
		return giftprompt.SampleGenerator(), nil
	}
	if err != nil {
		return nil, err
	}
	if closer, ok := generator.(interface{ Close() error }); ok {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return closer.Close() },
		})
	}
	log.Zerolog(context.Background()).Info().Str("provider", generator.Name()).Msg("text generator ready")
	return generator, nil
}

func ProvideTokenSequence() (sequence.Generator, error) {
	return sequence.New(-1)
}

func ProvideSuggestionService(
	cfg *config.Config,
	slots repositories.SlotStore,
	regions services.RegionServiceInterface,
	generator llm.TextGenerator,
	tokens sequence.Generator,
	cache mem.Store[[]response_models.GiftSuggestion],
	m *metrics.SuggestionMetrics,
	log *logger.Logger,
) services.SuggestionServiceInterface {
	return services.NewSuggestionService(slots, regions, generator, tokens, cache, m, log, services.SuggestionOptions{
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		CacheTTL:  cfg.LLM.CacheTTL,
	})
}

func ProvideAssistantService(
	cfg *config.Config,
	slots repositories.SlotStore,
	regions services.RegionServiceInterface,
	wizards services.WizardServiceInterface,
	generator llm.TextGenerator,
	m *metrics.SuggestionMetrics,
	log *logger.Logger,
) services.AssistantServiceInterface {
	return services.NewAssistantService(slots, regions, wizards, generator, m, log, services.AssistantOptions{
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
}
