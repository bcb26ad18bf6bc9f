package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"gifty/internal/config"
	"gifty/internal/infra"
	"gifty/internal/repositories"
	"gifty/pkg/logger"
)

var Module = fx.Provide(
	provideDB,
	repositories.NewRecipientRepository,
	repositories.NewGroupGiftRepository,
)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}
