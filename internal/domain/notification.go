package domain

import "time"

// Gateway payment statuses the reconciler acts upon.
const (
	GatewayStatusConfirmed       = "CONFIRMED"
	GatewayStatusRejected        = "REJECTED"
	GatewayStatusCanceled        = "CANCELED"
	GatewayStatusDeadlineExpired = "DEADLINE_EXPIRED"
	GatewayStatusReversed        = "REVERSED"
	GatewayStatusAuthFail        = "AUTH_FAIL"
)

// PaymentNotification is the parsed body of a gateway webhook call.
type PaymentNotification struct {
	Amount    int64
	OrderID   int64
	PaymentID int64
	Status    string
	Success   bool
	// Fields holds every scalar field of the original payload, used for token checks.
	Fields map[string]any
	Token  string
	Raw    []byte
}

type ReconcileOutcome string

const (
	OutcomeConfirmed       ReconcileOutcome = "confirmed"
	OutcomeCanceled        ReconcileOutcome = "canceled"
	OutcomeDuplicate       ReconcileOutcome = "duplicate"
	OutcomeUnknownOrder    ReconcileOutcome = "unknown_order"
	OutcomeIntegrity       ReconcileOutcome = "integrity_violation"
	OutcomeBadSignature    ReconcileOutcome = "bad_signature"
	OutcomeIgnoredStatus   ReconcileOutcome = "ignored_status"
	OutcomeGatewayFailure  ReconcileOutcome = "gateway_failure"
	OutcomeStorageFailure  ReconcileOutcome = "storage_failure"
	OutcomeNotYetConfirmed ReconcileOutcome = "not_yet_confirmed"
)

// NotificationLog is the audit record of one inbound webhook.
type NotificationLog struct {
	ID         string
	OrderID    int64
	PaymentID  int64
	Amount     int64
	Status     string
	Outcome    ReconcileOutcome
	Error      string
	Payload    []byte
	ReceivedAt time.Time
}
