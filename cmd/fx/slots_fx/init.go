package slots_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"gifty/internal/config"
	"gifty/internal/infra"
	"gifty/internal/repositories"
	"gifty/pkg/logger"
)

var Module = fx.Provide(provideSlotStore)

func provideSlotStore(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *logger.Logger) (repositories.SlotStore, error) {
	switch cfg.Slots.Backend {
	case config.SlotBackendRedis:
		client, err := infra.InitRedis(context.Background(), cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		return repositories.NewRedisSlotStore(client, cfg.Slots.TTL), nil
	case config.SlotBackendPostgres:
		return repositories.NewGormSlotStore(db, cfg.Slots.TTL), nil
	default:
		return repositories.NewMemorySlotStore(cfg.Slots.TTL), nil
	}
}
