package domain

import "time"

type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCanceled  OrderStatus = "canceled"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusCanceled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusCanceled:
		return true
	}
	return false
}

type Order struct {
	OrderID   int64
	TgID      int64
	Amount    int64 // minor units
	PaymentID *int64
	Status    OrderStatus
	Address   string
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPayment reports whether the gateway id was assigned and equals paymentID.
func (o *Order) HasPayment(paymentID int64) bool {
	return o.PaymentID != nil && *o.PaymentID == paymentID
}

// PurchaserContext identifies who is paying and where fulfillment is routed.
type PurchaserContext struct {
	TgID    int64
	ChatID  int64
	Email   string
	Phone   string
	Address string
}

// OrderFinalizedEvent is emitted once per order reaching a terminal status.
type OrderFinalizedEvent struct {
	EventID     string
	OrderID     int64
	TgID        int64
	PaymentID   int64
	Amount      int64
	Status      OrderStatus
	FinalizedAt time.Time
}
