package tinkoff

import (
	"fmt"
	"strconv"
	"strings"
)

// FlexInt accepts identifiers the gateway sends either as JSON numbers or as strings.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*f = FlexInt(v)
	return nil
}

// response covers every field the service reads from Init, GetState, Confirm and Cancel.
type response struct {
	Success     bool    `json:"Success"`
	ErrorCode   string  `json:"ErrorCode"`
	Message     string  `json:"Message"`
	Details     string  `json:"Details"`
	TerminalKey string  `json:"TerminalKey"`
	Status      string  `json:"Status"`
	PaymentID   FlexInt `json:"PaymentId"`
	OrderID     FlexInt `json:"OrderId"`
	Amount      FlexInt `json:"Amount"`
	PaymentURL  string  `json:"PaymentURL"`
}
