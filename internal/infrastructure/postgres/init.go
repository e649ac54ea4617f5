package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/shvark-acquiring-service/internal/config"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the orders database. Duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return db, nil
}

// AutoMigrate keeps the schema in sync when no migrations directory is configured.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderModel{}, &models.PaymentNotificationLogModel{}, &models.OrderOutboxModel{})
}

func MustInitDB(cfg *config.PayConfig) *gorm.DB {
	db, err := Open(cfg.PayDB.Dsn)
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if cfg.MigrationsPath == "" {
		if err := AutoMigrate(db); err != nil {
			log.Fatalf("failed to auto-migrate db: %v\n", err.Error())
		}
	}

	return db
}
