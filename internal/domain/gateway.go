package domain

import "context"

type InitPaymentRequest struct {
	Amount          int64
	OrderID         int64
	Description     string
	SuccessURL      string
	FailURL         string
	NotificationURL string
	Receipt         *Receipt
	Data            map[string]string
}

type InitPaymentResult struct {
	PaymentID  int64
	PaymentURL string
	Status     string
}

type PaymentState struct {
	PaymentID int64
	OrderID   int64
	Amount    int64
	Status    string
}

// Receipt is the itemized fiscal receipt attached to Init; it never takes part in signing.
type Receipt struct {
	Email    string        `json:"Email,omitempty"`
	Phone    string        `json:"Phone,omitempty"`
	Taxation string        `json:"Taxation"`
	Items    []ReceiptItem `json:"Items"`
}

type ReceiptItem struct {
	Name     string `json:"Name"`
	Price    int64  `json:"Price"`
	Quantity int    `json:"Quantity"`
	Amount   int64  `json:"Amount"`
	Tax      string `json:"Tax"`
}

// PaymentGateway is the acquiring API as seen by use cases.
type PaymentGateway interface {
	InitPayment(ctx context.Context, req *InitPaymentRequest) (*InitPaymentResult, error)
	GetState(ctx context.Context, paymentID int64) (*PaymentState, error)
	Confirm(ctx context.Context, paymentID int64) (*PaymentState, error)
	Cancel(ctx context.Context, paymentID int64) (*PaymentState, error)
}

// NotificationVerifier checks the token a gateway attaches to its webhooks.
type NotificationVerifier interface {
	Verify(fields map[string]any, token string) bool
}

// OrderNotifier receives finalized orders; implementations route the event to the purchaser.
type OrderNotifier interface {
	NotifyOrderFinalized(ctx context.Context, event OrderFinalizedEvent) error
}
