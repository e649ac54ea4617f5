package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

// OrderRepository keeps orders in process memory. It is used when no
// database DSN is configured and by tests. It also serves as the outbox so
// status changes and their events share one lock.
type OrderRepository struct {
	mu     sync.Mutex
	orders map[int64]domain.Order
	outbox map[string]domain.OutboxMessage
	now    func() time.Time
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[int64]domain.Order),
		outbox: make(map[string]domain.OutboxMessage),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *OrderRepository) Create(_ context.Context, order *domain.Order) error {
	if order.Amount <= 0 {
		return domain.ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.OrderID]; ok {
		return domain.ErrDuplicateOrderID
	}
	now := r.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.orders[order.OrderID] = copyOrder(order)
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, orderID int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	out := copyOrder(&order)
	return &out, nil
}

func (r *OrderRepository) GetAmountByOrderID(ctx context.Context, orderID int64) (int64, error) {
	order, err := r.GetByID(ctx, orderID)
	if err != nil {
		return 0, err
	}
	return order.Amount, nil
}

func (r *OrderRepository) GetByPaymentAndAmount(_ context.Context, paymentID, amount int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range r.orders {
		if order.HasPayment(paymentID) && order.Amount == amount {
			out := copyOrder(&order)
			return &out, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *OrderRepository) SetStatus(_ context.Context, orderID int64, status domain.OrderStatus, paymentID int64, msg *domain.OutboxMessage) (bool, error) {
	if !status.IsTerminal() {
		return false, &domain.StorageError{Op: "set order status", Err: fmt.Errorf("status %q is not a terminal status", status)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok || !order.HasPayment(paymentID) || order.Status != domain.StatusNew {
		return false, nil
	}
	order.Status = status
	order.UpdatedAt = r.now()
	r.orders[orderID] = order
	if msg != nil {
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = order.UpdatedAt
		}
		r.outbox[msg.ID] = *msg
	}
	return true, nil
}

func (r *OrderRepository) FetchDue(_ context.Context, now time.Time, limit int) ([]*domain.OutboxMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*domain.OutboxMessage
	for _, msg := range r.outbox {
		if msg.SentAt == nil && !msg.NextAttemptAt.After(now) {
			out := msg
			due = append(due, &out)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].CreatedAt.Before(due[j].CreatedAt)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *OrderRepository) MarkSent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.outbox[id]
	if !ok || msg.SentAt != nil {
		return nil
	}
	sentAt := r.now()
	msg.SentAt = &sentAt
	r.outbox[id] = msg
	return nil
}

func (r *OrderRepository) MarkFailed(_ context.Context, id, reason string, retryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.outbox[id]
	if !ok || msg.SentAt != nil {
		return nil
	}
	msg.Attempts++
	msg.LastError = reason
	msg.NextAttemptAt = retryAt
	r.outbox[id] = msg
	return nil
}

func (r *OrderRepository) MaxOrderID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for id := range r.orders {
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

func (r *OrderRepository) FindPendingBefore(_ context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []*domain.Order
	for _, order := range r.orders {
		if order.Status == domain.StatusNew && order.PaymentID != nil && order.CreatedAt.Before(before) {
			out := copyOrder(&order)
			pending = append(pending, &out)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func copyOrder(order *domain.Order) domain.Order {
	out := *order
	if order.PaymentID != nil {
		id := *order.PaymentID
		out.PaymentID = &id
	}
	return out
}
