package config_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"

	"gifty/internal/config"
	"gifty/internal/presets"
	"gifty/pkg/logger"
	"gifty/pkg/metrics"
	"gifty/pkg/utils"
)

var Module = fx.Provide(
	config.Load,
	provideLogger,
	provideSessionTokens,
	provideRegistry,
	provideSuggestionMetrics,
	providePresets,
)

func provideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "gifty",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
}

func provideSessionTokens(cfg *config.Config) (*utils.SessionTokens, error) {
	return utils.NewSessionTokens(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideSuggestionMetrics(reg *prometheus.Registry) *metrics.SuggestionMetrics {
	return metrics.NewSuggestionMetrics(reg)
}

func providePresets(cfg *config.Config) (*presets.Catalog, error) {
	if cfg.Presets.Path != "" {
		return presets.Load(cfg.Presets.Path)
	}
	return presets.Default()
}
