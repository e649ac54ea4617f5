package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/metrics"
)

const maxRetryDelay = time.Hour

// RelayReport counts what one relay pass delivered.
type RelayReport struct {
	Sent   int
	Failed int
}

// OutboxRelay delivers finalized events stored in the outbox and keeps
// retrying each one until a notifier acknowledges it.
type OutboxRelay struct {
	outbox     domain.OutboxRepository
	notifier   domain.OrderNotifier
	metrics    *metrics.PaymentMetrics
	retryDelay time.Duration
	batch      int
	now        func() time.Time
}

func NewOutboxRelay(
	outbox domain.OutboxRepository,
	notifier domain.OrderNotifier,
	paymentMetrics *metrics.PaymentMetrics,
	retryDelay time.Duration,
	batch int,
) *OutboxRelay {
	if retryDelay <= 0 {
		retryDelay = 30 * time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &OutboxRelay{
		outbox:     outbox,
		notifier:   notifier,
		metrics:    paymentMetrics,
		retryDelay: retryDelay,
		batch:      batch,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NewMessage wraps event for SetStatus. The first relay pass is deferred by
// one retry delay so it does not race the immediate Deliver.
func (r *OutboxRelay) NewMessage(event domain.OrderFinalizedEvent) *domain.OutboxMessage {
	now := r.now()
	return &domain.OutboxMessage{
		ID:            event.EventID,
		Event:         event,
		NextAttemptAt: now.Add(r.retryDelay),
		CreatedAt:     now,
	}
}

// Deliver hands msg to the notifier and records the result in the outbox.
// A failed delivery is rescheduled with linear backoff.
func (r *OutboxRelay) Deliver(ctx context.Context, msg *domain.OutboxMessage) error {
	logger := slog.With("event_id", msg.ID, "order_id", msg.Event.OrderID, "attempt", msg.Attempts+1)

	if err := r.notifier.NotifyOrderFinalized(ctx, msg.Event); err != nil {
		r.metrics.RecordOutboxDelivery("failed")
		logger.Error("fulfillment notification failed, will retry", "error", err.Error())
		if markErr := r.outbox.MarkFailed(ctx, msg.ID, err.Error(), r.nextAttempt(msg.Attempts)); markErr != nil {
			logger.Error("failed to reschedule outbox message", "error", markErr.Error())
		}
		return err
	}

	r.metrics.RecordOutboxDelivery("sent")
	if err := r.outbox.MarkSent(ctx, msg.ID); err != nil {
		logger.Error("failed to mark outbox message sent", "error", err.Error())
		return err
	}
	return nil
}

// Relay delivers every due message once.
func (r *OutboxRelay) Relay(ctx context.Context) (RelayReport, error) {
	var report RelayReport

	due, err := r.outbox.FetchDue(ctx, r.now(), r.batch)
	if err != nil {
		return report, err
	}
	for _, msg := range due {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if err := r.Deliver(ctx, msg); err != nil {
			report.Failed++
			continue
		}
		report.Sent++
	}
	return report, nil
}

func (r *OutboxRelay) nextAttempt(attempts int) time.Time {
	delay := r.retryDelay * time.Duration(attempts+1)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return r.now().Add(delay)
}
