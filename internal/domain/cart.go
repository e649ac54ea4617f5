package domain

import "context"

// MerchConferenceID marks the catalog entry holding physical merchandise.
const MerchConferenceID = "0"

// Selection maps a conference id to the chosen lecture ids.
type Selection map[string][]string

// Session is the per-chat presentation state kept between UI interactions.
type Session struct {
	ChatID    int64     `json:"chat_id"`
	Selection Selection `json:"selection"`
	Address   string    `json:"address,omitempty"`
	Email     string    `json:"email,omitempty"`

	// PromoRejection is the 1-based index of the last promo rejection text
	// shown in this chat, 0 when none.
	PromoRejection int `json:"promo_rejection,omitempty"`
}

type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*Session, error)
	Set(ctx context.Context, session *Session) error
	Clear(ctx context.Context, chatID int64) error
}

type CheckoutLine struct {
	ConferenceID string
	Title        string
	Amount       int64 // minor units
}

// Checkout is what the cart hands over to the payment session manager.
type Checkout struct {
	Amount           int64 // minor units
	ShippingRequired bool
	ItemCount        int
	Lines            []CheckoutLine
}
