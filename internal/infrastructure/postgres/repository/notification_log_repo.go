package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/mappers"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultNotificationLogRepository struct {
	DB *gorm.DB
}

func NewDefaultNotificationLogRepository(db *gorm.DB) *DefaultNotificationLogRepository {
	return &DefaultNotificationLogRepository{DB: db}
}

func (r *DefaultNotificationLogRepository) Save(ctx context.Context, entry *domain.NotificationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now().UTC()
	}
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMNotificationLog(entry)).Error; err != nil {
		return storageError("save notification log", err, "payment_id", entry.PaymentID)
	}
	return nil
}
