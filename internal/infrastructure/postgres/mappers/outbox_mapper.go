package mappers

import (
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/models"
)

func ToGORMOutbox(msg *domain.OutboxMessage) *models.OrderOutboxModel {
	return &models.OrderOutboxModel{
		ID:            msg.ID,
		OrderID:       msg.Event.OrderID,
		TgID:          msg.Event.TgID,
		PaymentID:     msg.Event.PaymentID,
		Amount:        msg.Event.Amount,
		Status:        msg.Event.Status,
		FinalizedAt:   msg.Event.FinalizedAt,
		Attempts:      msg.Attempts,
		LastError:     msg.LastError,
		NextAttemptAt: msg.NextAttemptAt,
		CreatedAt:     msg.CreatedAt,
		SentAt:        msg.SentAt,
	}
}

func ToDomainOutbox(model *models.OrderOutboxModel) *domain.OutboxMessage {
	return &domain.OutboxMessage{
		ID: model.ID,
		Event: domain.OrderFinalizedEvent{
			EventID:     model.ID,
			OrderID:     model.OrderID,
			TgID:        model.TgID,
			PaymentID:   model.PaymentID,
			Amount:      model.Amount,
			Status:      model.Status,
			FinalizedAt: model.FinalizedAt,
		},
		Attempts:      model.Attempts,
		LastError:     model.LastError,
		NextAttemptAt: model.NextAttemptAt,
		CreatedAt:     model.CreatedAt,
		SentAt:        model.SentAt,
	}
}
