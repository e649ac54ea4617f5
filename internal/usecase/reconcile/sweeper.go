package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/metrics"
)

const sourceSweeper = "sweeper"

// SweepReport counts what one sweep did with the stale orders it found.
type SweepReport struct {
	Checked   int
	Confirmed int
	Canceled  int
	Skipped   int
}

// Sweeper resolves orders that stayed `new` longer than the pending TTL,
// using the gateway state as the source of truth.
type Sweeper struct {
	orderRepo  domain.OrderRepository
	gateway    domain.PaymentGateway
	finalizer  *Finalizer
	metrics    *metrics.PaymentMetrics
	pendingTTL time.Duration
	batch      int
	now        func() time.Time
}

func NewSweeper(
	orderRepo domain.OrderRepository,
	gateway domain.PaymentGateway,
	finalizer *Finalizer,
	paymentMetrics *metrics.PaymentMetrics,
	pendingTTL time.Duration,
	batch int,
) *Sweeper {
	if batch <= 0 {
		batch = 50
	}
	return &Sweeper{
		orderRepo:  orderRepo,
		gateway:    gateway,
		finalizer:  finalizer,
		metrics:    paymentMetrics,
		pendingTTL: pendingTTL,
		batch:      batch,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	orders, err := s.orderRepo.FindPendingBefore(ctx, s.now().Add(-s.pendingTTL), s.batch)
	if err != nil {
		return report, err
	}

	for _, order := range orders {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Checked++

		result := s.resolve(ctx, order)
		s.metrics.RecordSwept(result)
		switch result {
		case "confirmed":
			report.Confirmed++
		case "canceled":
			report.Canceled++
		default:
			report.Skipped++
		}
	}
	return report, nil
}

func (s *Sweeper) resolve(ctx context.Context, order *domain.Order) string {
	paymentID := *order.PaymentID
	logger := slog.With("order_id", order.OrderID, "payment_id", paymentID)

	state, err := s.gateway.GetState(ctx, paymentID)
	if err != nil {
		logger.Error("failed to query stale order state", "kind", domain.ErrorKind(err), "error", err.Error())
		return "error"
	}

	switch state.Status {
	case domain.GatewayStatusConfirmed:
		if state.PaymentID != paymentID || state.Amount != order.Amount {
			s.metrics.RecordIntegrityViolation()
			logger.Error("stale order does not match gateway state",
				"gateway_payment_id", state.PaymentID,
				"gateway_amount", state.Amount,
				"amount", order.Amount,
			)
			return "integrity_violation"
		}
		return s.commit(ctx, order, domain.StatusConfirmed, logger)

	case domain.GatewayStatusRejected,
		domain.GatewayStatusCanceled,
		domain.GatewayStatusDeadlineExpired,
		domain.GatewayStatusReversed,
		domain.GatewayStatusAuthFail:
		return s.commit(ctx, order, domain.StatusCanceled, logger)

	default:
		if _, err := s.gateway.Cancel(ctx, paymentID); err != nil {
			logger.Error("failed to cancel stale payment session", "gateway_status", state.Status, "error", err.Error())
			return "error"
		}
		return s.commit(ctx, order, domain.StatusCanceled, logger)
	}
}

func (s *Sweeper) commit(ctx context.Context, order *domain.Order, status domain.OrderStatus, logger *slog.Logger) string {
	applied, err := s.finalizer.Commit(ctx, order, status, *order.PaymentID, sourceSweeper)
	if err != nil {
		logger.Error("failed to finalize stale order", "error", err.Error())
		return "error"
	}
	if !applied {
		return "duplicate"
	}
	return string(status)
}
