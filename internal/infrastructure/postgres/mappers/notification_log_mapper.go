package mappers

import (
	"encoding/json"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToGORMNotificationLog(entry *domain.NotificationLog) *models.PaymentNotificationLogModel {
	payload := datatypes.JSON("null")
	if len(entry.Payload) > 0 && json.Valid(entry.Payload) {
		payload = datatypes.JSON(entry.Payload)
	}
	return &models.PaymentNotificationLogModel{
		ID:         entry.ID,
		OrderID:    entry.OrderID,
		PaymentID:  entry.PaymentID,
		Amount:     entry.Amount,
		Status:     entry.Status,
		Outcome:    string(entry.Outcome),
		Error:      entry.Error,
		Payload:    payload,
		ReceivedAt: entry.ReceivedAt,
	}
}

func ToDomainNotificationLog(model *models.PaymentNotificationLogModel) *domain.NotificationLog {
	return &domain.NotificationLog{
		ID:         model.ID,
		OrderID:    model.OrderID,
		PaymentID:  model.PaymentID,
		Amount:     model.Amount,
		Status:     model.Status,
		Outcome:    domain.ReconcileOutcome(model.Outcome),
		Error:      model.Error,
		Payload:    []byte(model.Payload),
		ReceivedAt: model.ReceivedAt,
	}
}
