package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/memory"
)

type mockGateway struct {
	mu           sync.Mutex
	GetStateFunc func(ctx context.Context, paymentID int64) (*domain.PaymentState, error)
	CancelFunc   func(ctx context.Context, paymentID int64) (*domain.PaymentState, error)
	stateCalls   int
	canceled     []int64
}

func (m *mockGateway) InitPayment(context.Context, *domain.InitPaymentRequest) (*domain.InitPaymentResult, error) {
	panic("InitPayment is not expected during reconciliation")
}

func (m *mockGateway) GetState(ctx context.Context, paymentID int64) (*domain.PaymentState, error) {
	m.mu.Lock()
	m.stateCalls++
	m.mu.Unlock()
	return m.GetStateFunc(ctx, paymentID)
}

func (m *mockGateway) Confirm(context.Context, int64) (*domain.PaymentState, error) {
	panic("Confirm is not expected during reconciliation")
}

func (m *mockGateway) Cancel(ctx context.Context, paymentID int64) (*domain.PaymentState, error) {
	m.mu.Lock()
	m.canceled = append(m.canceled, paymentID)
	m.mu.Unlock()
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, paymentID)
	}
	return &domain.PaymentState{PaymentID: paymentID, Status: domain.GatewayStatusCanceled}, nil
}

// recordingNotifier rejects the first failures deliveries, then records.
type recordingNotifier struct {
	mu       sync.Mutex
	failures int
	calls    int
	events   []domain.OrderFinalizedEvent
}

func (n *recordingNotifier) NotifyOrderFinalized(_ context.Context, event domain.OrderFinalizedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.failures > 0 {
		n.failures--
		return errors.New("broker unavailable")
	}
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) Events() []domain.OrderFinalizedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.OrderFinalizedEvent(nil), n.events...)
}

type verifierFunc func(fields map[string]any, token string) bool

func (f verifierFunc) Verify(fields map[string]any, token string) bool {
	return f(fields, token)
}

func stateOf(paymentID, amount int64, status string) func(context.Context, int64) (*domain.PaymentState, error) {
	return func(context.Context, int64) (*domain.PaymentState, error) {
		return &domain.PaymentState{PaymentID: paymentID, Amount: amount, Status: status}, nil
	}
}

func newRelay(repo *memory.OrderRepository, notifier domain.OrderNotifier) *OutboxRelay {
	return NewOutboxRelay(repo, notifier, nil, time.Minute, 10)
}
