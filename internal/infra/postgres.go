package infra

import (
	"context"
	"fmt"
	"io"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gifty/internal/config"
	"gifty/internal/models/db_models"
	"gifty/pkg/logger"
)

// InitPostgresql opens the service database. Without a DSN it falls back to a local sqlite
// file so the service runs without external dependencies in development.
func InitPostgresql(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.Postgres() {
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(conn); err != nil {
			return nil, err
		}
	}

	logg.Zerolog(ctx).Info().Str("dialect", conn.Dialector.Name()).Msg("database connection established")
	return conn, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&db_models.Slot{},
		&db_models.Recipient{},
		&db_models.GroupGift{},
		&db_models.Participant{},
		&db_models.GiftOption{},
		&db_models.GroupMessage{},
	); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

func ClosePostgresql(db *gorm.DB, logg *logger.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logg.Error(context.Background(), "getting database instance", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logg.Error(context.Background(), "closing database connection", err)
	} else {
		logg.Info(context.Background(), "database connection closed")
	}
}

func StartTransaction(db *gorm.DB) (*gorm.DB, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("starting transaction: %w", tx.Error)
	}
	return tx, nil
}

// ReleaseTransaction rolls back when err is set and commits otherwise. It returns err or the
// commit failure.
func ReleaseTransaction(tx *gorm.DB, err error) error {
	if err != nil {
		_ = tx.Rollback().Error
		return err
	}
	if commitErr := tx.Commit().Error; commitErr != nil {
		return fmt.Errorf("committing transaction: %w", commitErr)
	}
	return nil
}
