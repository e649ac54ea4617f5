package mappers

import (
	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		OrderID:   model.OrderID,
		TgID:      model.TgID,
		Amount:    model.Amount,
		PaymentID: model.PaymentID,
		Status:    model.Status,
		Address:   model.Address,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		OrderID:   order.OrderID,
		TgID:      order.TgID,
		Amount:    order.Amount,
		PaymentID: order.PaymentID,
		Status:    order.Status,
		Address:   order.Address,
		Comment:   order.Comment,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}
