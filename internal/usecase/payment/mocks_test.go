package payment

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

type mockGateway struct {
	mu              sync.Mutex
	InitPaymentFunc func(ctx context.Context, req *domain.InitPaymentRequest) (*domain.InitPaymentResult, error)
	CancelFunc      func(ctx context.Context, paymentID int64) (*domain.PaymentState, error)
	initRequests    []*domain.InitPaymentRequest
	canceled        []int64
}

func (m *mockGateway) InitPayment(ctx context.Context, req *domain.InitPaymentRequest) (*domain.InitPaymentResult, error) {
	m.mu.Lock()
	m.initRequests = append(m.initRequests, req)
	m.mu.Unlock()
	return m.InitPaymentFunc(ctx, req)
}

func (m *mockGateway) GetState(context.Context, int64) (*domain.PaymentState, error) {
	panic("GetState is not expected in session tests")
}

func (m *mockGateway) Confirm(context.Context, int64) (*domain.PaymentState, error) {
	panic("Confirm is not expected in session tests")
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

// failingRepo wraps an OrderRepository and overrides Create.
type failingRepo struct {
	domain.OrderRepository
	CreateFunc func(ctx context.Context, order *domain.Order) error
}

func (r *failingRepo) Create(ctx context.Context, order *domain.Order) error {
	return r.CreateFunc(ctx, order)
}
