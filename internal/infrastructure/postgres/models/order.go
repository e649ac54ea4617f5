package models

import (
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

type OrderModel struct {
	OrderID   int64              `gorm:"primaryKey;autoIncrement:false"`
	TgID      int64              `gorm:"not null;index:idx_orders_tg_id"`
	Amount    int64              `gorm:"not null;index:idx_orders_payment_amount,priority:2"`
	PaymentID *int64             `gorm:"index:idx_orders_payment_amount,priority:1"`
	Status    domain.OrderStatus `gorm:"type:varchar(16);not null;index:idx_orders_status_created,priority:1"`
	Address   string
	Comment   string
	CreatedAt time.Time `gorm:"not null;index:idx_orders_status_created,priority:2"`
	UpdatedAt time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
