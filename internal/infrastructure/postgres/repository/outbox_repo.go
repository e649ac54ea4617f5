package repository

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// DefaultOutboxRepository reads and acknowledges rows written by
// DefaultOrderRepository.SetStatus.
type DefaultOutboxRepository struct {
	DB *gorm.DB
}

func NewDefaultOutboxRepository(db *gorm.DB) *DefaultOutboxRepository {
	return &DefaultOutboxRepository{DB: db}
}

func (r *DefaultOutboxRepository) FetchDue(ctx context.Context, now time.Time, limit int) ([]*domain.OutboxMessage, error) {
	var rows []models.OrderOutboxModel
	err := r.DB.WithContext(ctx).
		Where("sent_at IS NULL AND next_attempt_at <= ?", now).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, storageError("fetch due outbox messages", err)
	}

	messages := make([]*domain.OutboxMessage, 0, len(rows))
	for i := range rows {
		messages = append(messages, mappers.ToDomainOutbox(&rows[i]))
	}
	return messages, nil
}

func (r *DefaultOutboxRepository) MarkSent(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).
		Model(&models.OrderOutboxModel{}).
		Where("id = ? AND sent_at IS NULL", id).
		Update("sent_at", time.Now().UTC()).Error
	if err != nil {
		return storageError("mark outbox message sent", err, "event_id", id)
	}
	return nil
}

func (r *DefaultOutboxRepository) MarkFailed(ctx context.Context, id, reason string, retryAt time.Time) error {
	err := r.DB.WithContext(ctx).
		Model(&models.OrderOutboxModel{}).
		Where("id = ? AND sent_at IS NULL", id).
		Updates(map[string]any{
			"attempts":        gorm.Expr("attempts + 1"),
			"last_error":      reason,
			"next_attempt_at": retryAt,
		}).Error
	if err != nil {
		return storageError("mark outbox message failed", err, "event_id", id)
	}
	return nil
}
