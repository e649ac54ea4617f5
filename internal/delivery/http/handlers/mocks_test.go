package handlers

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/payment"
	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/promo"
)

type mockReconciler struct {
	mu            sync.Mutex
	ReconcileFunc func(ctx context.Context, n *domain.PaymentNotification) (domain.ReconcileOutcome, error)
	received      []*domain.PaymentNotification
}

func (m *mockReconciler) Reconcile(ctx context.Context, n *domain.PaymentNotification) (domain.ReconcileOutcome, error) {
	m.mu.Lock()
	m.received = append(m.received, n)
	m.mu.Unlock()
	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx, n)
	}
	return domain.OutcomeConfirmed, nil
}

type mockSessions struct {
	InitiateOrderFunc func(ctx context.Context, purchaser domain.PurchaserContext, amount int64, shipping bool, opts payment.InitiateOptions) (*payment.InitiateResult, error)
}

func (m *mockSessions) InitiateOrder(ctx context.Context, purchaser domain.PurchaserContext, amount int64, shipping bool, opts payment.InitiateOptions) (*payment.InitiateResult, error) {
	return m.InitiateOrderFunc(ctx, purchaser, amount, shipping, opts)
}

type mockCart struct {
	AggregateFunc        func(selection domain.Selection) (*domain.Checkout, error)
	GetSessionFunc       func(ctx context.Context, chatID int64) (*domain.Session, error)
	SelectLecturesFunc   func(ctx context.Context, chatID int64, conferenceID string, lectureIDs ...string) (*domain.Session, error)
	SelectConferenceFunc func(ctx context.Context, chatID int64, conferenceID string) (*domain.Session, error)
	RemoveLectureFunc    func(ctx context.Context, chatID int64, conferenceID, lectureID string) (*domain.Session, error)
	UpdateContactsFunc   func(ctx context.Context, chatID int64, address, email string) (*domain.Session, error)
	ClearFunc            func(ctx context.Context, chatID int64) error
	CheckoutFunc         func(ctx context.Context, purchaser domain.PurchaserContext, comment string) (*payment.InitiateResult, *domain.Checkout, error)
}

func (m *mockCart) Aggregate(selection domain.Selection) (*domain.Checkout, error) {
	if m.AggregateFunc == nil {
		return nil, domain.ErrEmptyCart
	}
	return m.AggregateFunc(selection)
}

func (m *mockCart) GetSession(ctx context.Context, chatID int64) (*domain.Session, error) {
	return m.GetSessionFunc(ctx, chatID)
}

func (m *mockCart) SelectLectures(ctx context.Context, chatID int64, conferenceID string, lectureIDs ...string) (*domain.Session, error) {
	return m.SelectLecturesFunc(ctx, chatID, conferenceID, lectureIDs...)
}

func (m *mockCart) SelectConference(ctx context.Context, chatID int64, conferenceID string) (*domain.Session, error) {
	return m.SelectConferenceFunc(ctx, chatID, conferenceID)
}

func (m *mockCart) RemoveLecture(ctx context.Context, chatID int64, conferenceID, lectureID string) (*domain.Session, error) {
	return m.RemoveLectureFunc(ctx, chatID, conferenceID, lectureID)
}

func (m *mockCart) UpdateContacts(ctx context.Context, chatID int64, address, email string) (*domain.Session, error) {
	return m.UpdateContactsFunc(ctx, chatID, address, email)
}

func (m *mockCart) Clear(ctx context.Context, chatID int64) error {
	return m.ClearFunc(ctx, chatID)
}

func (m *mockCart) Checkout(ctx context.Context, purchaser domain.PurchaserContext, comment string) (*payment.InitiateResult, *domain.Checkout, error) {
	return m.CheckoutFunc(ctx, purchaser, comment)
}

type mockPromo struct {
	RedeemFunc func(ctx context.Context, chatID int64, conferenceID, code string) (*promo.RedeemResult, error)
}

func (m *mockPromo) Redeem(ctx context.Context, chatID int64, conferenceID, code string) (*promo.RedeemResult, error) {
	return m.RedeemFunc(ctx, chatID, conferenceID, code)
}

func (m *mockPromo) Generate(context.Context, string, int) ([]string, error) {
	panic("Generate is not exposed over http")
}
