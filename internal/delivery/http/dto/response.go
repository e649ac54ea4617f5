package dto

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type PaymentSessionResponse struct {
	OrderID    int64  `json:"order_id"`
	PaymentURL string `json:"payment_url"`
	Amount     int64  `json:"amount"`
}

type CheckoutLine struct {
	ConferenceID string `json:"conference_id"`
	Title        string `json:"title"`
	Amount       int64  `json:"amount"`
}

type CartResponse struct {
	ChatID           int64               `json:"chat_id"`
	Selection        map[string][]string `json:"selection"`
	Address          string              `json:"address,omitempty"`
	Email            string              `json:"email,omitempty"`
	Amount           int64               `json:"amount"`
	ShippingRequired bool                `json:"shipping_required"`
	ItemCount        int                 `json:"item_count"`
	Lines            []CheckoutLine      `json:"lines,omitempty"`
}

type RedeemPromoResponse struct {
	Accepted  bool                `json:"accepted"`
	Message   string              `json:"message"`
	Selection map[string][]string `json:"selection,omitempty"`
}
