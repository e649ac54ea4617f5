package dto

type CreateOrderRequest struct {
	TgID        int64  `json:"tg_id"`
	ChatID      int64  `json:"chat_id"`
	Amount      int64  `json:"amount"`
	Shipping    bool   `json:"shipping"`
	Address     string `json:"address"`
	Comment     string `json:"comment"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

type SelectRequest struct {
	ConferenceID string   `json:"conference_id"`
	LectureIDs   []string `json:"lecture_ids"`
	All          bool     `json:"all"`
}

type ContactsRequest struct {
	Address string `json:"address"`
	Email   string `json:"email"`
}

type CheckoutRequest struct {
	TgID    int64  `json:"tg_id"`
	Phone   string `json:"phone"`
	Comment string `json:"comment"`
}

type RedeemPromoRequest struct {
	ChatID       int64  `json:"chat_id"`
	ConferenceID string `json:"conference_id"`
	Code         string `json:"code"`
}
