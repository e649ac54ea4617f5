package domain

import (
	"context"
	"time"
)

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, orderID int64) (*Order, error)
	GetAmountByOrderID(ctx context.Context, orderID int64) (int64, error)
	GetByPaymentAndAmount(ctx context.Context, paymentID, amount int64) (*Order, error)
	// SetStatus moves a `new` order carrying paymentID to status. It reports
	// false when the guard did not match (missing order or terminal status).
	// A non-nil msg is stored in the outbox atomically with the change and
	// only when the change applied.
	SetStatus(ctx context.Context, orderID int64, status OrderStatus, paymentID int64, msg *OutboxMessage) (bool, error)
	MaxOrderID(ctx context.Context) (int64, error)
	FindPendingBefore(ctx context.Context, before time.Time, limit int) ([]*Order, error)
}

type NotificationLogRepository interface {
	Save(ctx context.Context, entry *NotificationLog) error
}
