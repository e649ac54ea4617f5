package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
)

// Finalizer commits terminal transitions. The finalized event is stored in
// the outbox with the transition and delivered only when the guarded update
// actually applied. A nil relay disables fulfillment events.
type Finalizer struct {
	orderRepo domain.OrderRepository
	relay     *OutboxRelay
	metrics   *metrics.PaymentMetrics
	now       func() time.Time
}

func NewFinalizer(orderRepo domain.OrderRepository, relay *OutboxRelay, paymentMetrics *metrics.PaymentMetrics) *Finalizer {
	return &Finalizer{
		orderRepo: orderRepo,
		relay:     relay,
		metrics:   paymentMetrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (f *Finalizer) Commit(ctx context.Context, order *domain.Order, status domain.OrderStatus, paymentID int64, source string) (bool, error) {
	var msg *domain.OutboxMessage
	if f.relay != nil {
		msg = f.relay.NewMessage(domain.OrderFinalizedEvent{
			EventID:     uuid.New().String(),
			OrderID:     order.OrderID,
			TgID:        order.TgID,
			PaymentID:   paymentID,
			Amount:      order.Amount,
			Status:      status,
			FinalizedAt: f.now(),
		})
	}

	applied, err := f.orderRepo.SetStatus(ctx, order.OrderID, status, paymentID, msg)
	if err != nil {
		return false, err
	}
	if !applied {
		slog.Info("order transition skipped, already final",
			"order_id", order.OrderID,
			"payment_id", paymentID,
			"target", status,
			"source", source,
		)
		return false, nil
	}

	f.metrics.RecordTransition(string(status), source, order.Amount, order.CreatedAt)
	slog.Info("order finalized",
		"order_id", order.OrderID,
		"payment_id", paymentID,
		"status", status,
		"source", source,
	)

	if msg != nil {
		// delivery continues even if the webhook request is canceled; on
		// failure the relay retries from the outbox
		_ = f.relay.Deliver(context.WithoutCancel(ctx), msg)
	}
	return true, nil
}
