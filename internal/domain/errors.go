package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrSessionCreation  = errors.New("failed to create payment session")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrUnknownCatalogID = errors.New("unknown catalog item")
	ErrPromoRejected    = errors.New("promo code is not valid")
	ErrDuplicateOrderID = errors.New("order id already exists")
)

// TransportError means the gateway could not be reached or timed out.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway transport error on %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the gateway answered with something that is not the expected JSON.
type ProtocolError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("gateway protocol error on %s (http %d): %v", e.Endpoint, e.StatusCode, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// GatewayError means the gateway explicitly rejected the request.
type GatewayError struct {
	Endpoint  string
	ErrorCode string
	Message   string
	Details   string
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("gateway rejected %s: code=%s message=%s", e.Endpoint, e.ErrorCode, e.Message)
	if e.Details != "" {
		msg += " details=" + e.Details
	}
	return msg
}

// IntegrityError is an amount or payment id mismatch found during reconciliation.
type IntegrityError struct {
	OrderID   int64
	PaymentID int64
	Reason    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation for order %d (payment %d): %s", e.OrderID, e.PaymentID, e.Reason)
}

// StorageError wraps any failure of the order store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorKind names the error category for logs and metrics.
func ErrorKind(err error) string {
	var (
		transportErr *TransportError
		protocolErr  *ProtocolError
		gatewayErr   *GatewayError
		integrityErr *IntegrityError
		storageErr   *StorageError
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &protocolErr):
		return "protocol"
	case errors.As(err, &gatewayErr):
		return "gateway"
	case errors.As(err, &integrityErr):
		return "integrity"
	case errors.As(err, &storageErr):
		return "storage"
	default:
		return "internal"
	}
}
