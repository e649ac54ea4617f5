package models

import (
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

// OrderOutboxModel holds finalized-order events until a notifier acknowledges them.
type OrderOutboxModel struct {
	ID            string             `gorm:"primaryKey;type:varchar(36)"`
	OrderID       int64              `gorm:"not null;index"`
	TgID          int64              `gorm:"not null"`
	PaymentID     int64              `gorm:"not null"`
	Amount        int64              `gorm:"not null"`
	Status        domain.OrderStatus `gorm:"type:varchar(16);not null"`
	FinalizedAt   time.Time          `gorm:"not null"`
	Attempts      int                `gorm:"not null;default:0"`
	LastError     string
	NextAttemptAt time.Time  `gorm:"not null;index:idx_order_outbox_due,priority:2"`
	CreatedAt     time.Time  `gorm:"not null"`
	SentAt        *time.Time `gorm:"index:idx_order_outbox_due,priority:1"`
}

func (OrderOutboxModel) TableName() string {
	return "order_outbox"
}
