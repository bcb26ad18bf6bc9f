package integrations_fx

import (
	"context"

	"go.uber.org/fx"

	"gifty/internal/config"
	"gifty/internal/models/response_models"
	"gifty/internal/services"
	"gifty/pkg/imagesearch"
	"gifty/pkg/llm"
	"gifty/pkg/logger"
	"gifty/pkg/maps"
	mem "gifty/pkg/memcache"
	"gifty/pkg/metrics"
)

var Module = fx.Provide(
	provideSpeechClient,
	provideImageSearcher,
	providePlacesClient,
	provideVoiceService,
	provideImageService,
	provideNearbyService,
)

// Each client below is left nil when unconfigured; the services then answer with
// utils.ErrFeatureDisabled.

func provideSpeechClient(cfg *config.Config, log *logger.Logger) llm.SpeechClient {
	key := cfg.Voice.APIKey
	if key == "" && cfg.LLM.Provider == llm.ProviderOpenAI {
		key = cfg.LLM.APIKey
	}
	if key == "" {
		log.Warn(context.Background(), "no OpenAI key configured, voice input is disabled")
		return nil
	}
	return llm.NewOpenAISpeech(key, "", cfg.Voice.TranscribeModel, cfg.Voice.SpeechModel, cfg.Voice.SpeechVoice)
}

func provideImageSearcher(cfg *config.Config, log *logger.Logger) (imagesearch.Searcher, error) {
	if cfg.Search.APIKey == "" || cfg.Search.EngineID == "" {
		log.Warn(context.Background(), "custom search not configured, product images are disabled")
		return nil, nil
	}
	client, err := imagesearch.NewClient(context.Background(), cfg.Search.APIKey, cfg.Search.EngineID)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func providePlacesClient(cfg *config.Config, log *logger.Logger) (services.PlacesClient, error) {
	if cfg.Maps.APIKey == "" {
		log.Warn(context.Background(), "GIFTY_GOOGLE_MAPS_API_KEY not set, nearby stores are disabled")
		return nil, nil
	}
	client, err := maps.NewClient(cfg.Maps.APIKey, maps.WithTimeout(cfg.Maps.RequestTimeout))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func provideVoiceService(cfg *config.Config, speech llm.SpeechClient, m *metrics.SuggestionMetrics) services.VoiceServiceInterface {
	return services.NewVoiceService(speech, cfg.Voice.Language, m)
}

func provideImageService(cfg *config.Config, searcher imagesearch.Searcher, cache mem.Store[response_models.ProductImage], m *metrics.SuggestionMetrics) services.ImageServiceInterface {
	return services.NewImageService(searcher, cache, cfg.Search.CacheTTL, m)
}

func provideNearbyService(cfg *config.Config, places services.PlacesClient, cache mem.Store[maps.LatLng], m *metrics.SuggestionMetrics, log *logger.Logger) services.NearbyServiceInterface {
	return services.NewNearbyService(places, cache, services.NearbyOptions{
		RadiusMeters: cfg.Maps.RadiusMeters,
		StoreTypes:   cfg.Maps.StoreTypes,
		GeocodeTTL:   cfg.Maps.GeocodeTTL,
	}, m, log)
}
