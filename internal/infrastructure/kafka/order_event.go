package kafka

import (
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

// OrderEvent is the wire form of a finalized order on the order-events topic.
type OrderEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     int64     `json:"order_id"`
	TgID        int64     `json:"tg_id"`
	PaymentID   int64     `json:"payment_id"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	FinalizedAt time.Time `json:"finalized_at"`
}

func NewOrderEvent(e domain.OrderFinalizedEvent) OrderEvent {
	return OrderEvent{
		EventID:     e.EventID,
		OrderID:     e.OrderID,
		TgID:        e.TgID,
		PaymentID:   e.PaymentID,
		Amount:      e.Amount,
		Status:      string(e.Status),
		FinalizedAt: e.FinalizedAt,
	}
}
