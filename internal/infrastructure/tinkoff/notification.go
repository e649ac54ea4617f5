package tinkoff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

// ParseNotification decodes a webhook body. Ids may come as numbers or strings.
func ParseNotification(body []byte) (*domain.PaymentNotification, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid notification json: %w", err)
	}

	amount, err := intField(payload, "Amount")
	if err != nil {
		return nil, err
	}
	orderID, err := intField(payload, "OrderId")
	if err != nil {
		return nil, err
	}
	paymentID, err := intField(payload, "PaymentId")
	if err != nil {
		return nil, err
	}
	status, ok := payload["Status"].(string)
	if !ok || status == "" {
		return nil, fmt.Errorf("notification field Status is missing")
	}
	success, ok := payload["Success"].(bool)
	if !ok {
		return nil, fmt.Errorf("notification field Success is missing or not a bool")
	}

	n := &domain.PaymentNotification{
		Amount:    amount,
		OrderID:   orderID,
		PaymentID: paymentID,
		Status:    status,
		Success:   success,
		Fields:    make(map[string]any, len(payload)),
		Raw:       body,
	}
	for key, value := range payload {
		switch v := value.(type) {
		case map[string]any, []any:
			continue
		case string:
			if key == "Token" {
				n.Token = v
				continue
			}
		}
		n.Fields[key] = value
	}
	return n, nil
}

func intField(payload map[string]any, key string) (int64, error) {
	switch v := payload[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("notification field %s: %w", key, err)
		}
		return n, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("notification field %s: %w", key, err)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("notification field %s is missing", key)
	default:
		return 0, fmt.Errorf("notification field %s has unexpected type %T", key, v)
	}
}
