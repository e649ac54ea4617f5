package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/metrics"
)

const sourceWebhook = "webhook"

type ReconcileUsecase interface {
	Reconcile(ctx context.Context, n *domain.PaymentNotification) (domain.ReconcileOutcome, error)
}

type DefaultReconcileUsecase struct {
	orderRepo domain.OrderRepository
	logRepo   domain.NotificationLogRepository
	gateway   domain.PaymentGateway
	verifier  domain.NotificationVerifier
	finalizer *Finalizer
	metrics   *metrics.PaymentMetrics
}

// NewDefaultReconcileUsecase builds the webhook reconciler. A nil verifier
// disables notification token checks; a nil logRepo disables the audit log.
func NewDefaultReconcileUsecase(
	orderRepo domain.OrderRepository,
	logRepo domain.NotificationLogRepository,
	gateway domain.PaymentGateway,
	verifier domain.NotificationVerifier,
	finalizer *Finalizer,
	paymentMetrics *metrics.PaymentMetrics,
) *DefaultReconcileUsecase {
	return &DefaultReconcileUsecase{
		orderRepo: orderRepo,
		logRepo:   logRepo,
		gateway:   gateway,
		verifier:  verifier,
		finalizer: finalizer,
		metrics:   paymentMetrics,
	}
}

// Reconcile drives the order referenced by n towards a terminal status. The
// returned error explains non-success outcomes and is never meant for the gateway.
func (uc *DefaultReconcileUsecase) Reconcile(ctx context.Context, n *domain.PaymentNotification) (domain.ReconcileOutcome, error) {
	outcome, err := uc.reconcile(ctx, n)

	logger := slog.With(
		"order_id", n.OrderID,
		"payment_id", n.PaymentID,
		"amount", n.Amount,
		"status", n.Status,
		"outcome", outcome,
	)
	switch outcome {
	case domain.OutcomeIntegrity, domain.OutcomeBadSignature:
		logger.Error("payment notification rejected", "error", errString(err))
	case domain.OutcomeGatewayFailure, domain.OutcomeStorageFailure:
		logger.Error("payment notification not reconciled", "kind", domain.ErrorKind(err), "error", errString(err))
	case domain.OutcomeUnknownOrder, domain.OutcomeNotYetConfirmed:
		logger.Warn("payment notification left unapplied", "error", errString(err))
	default:
		logger.Info("payment notification processed")
	}

	uc.metrics.RecordWebhook(n.Status, string(outcome))
	if outcome == domain.OutcomeIntegrity {
		uc.metrics.RecordIntegrityViolation()
	}
	uc.saveLog(ctx, n, outcome, err)

	return outcome, err
}

func (uc *DefaultReconcileUsecase) reconcile(ctx context.Context, n *domain.PaymentNotification) (domain.ReconcileOutcome, error) {
	if uc.verifier != nil && !uc.verifier.Verify(n.Fields, n.Token) {
		return domain.OutcomeBadSignature, errors.New("notification token mismatch")
	}

	order, err := uc.orderRepo.GetByPaymentAndAmount(ctx, n.PaymentID, n.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return uc.classifyMiss(ctx, n, err)
		}
		return domain.OutcomeStorageFailure, err
	}
	if order.OrderID != n.OrderID {
		return domain.OutcomeIntegrity, &domain.IntegrityError{
			OrderID:   n.OrderID,
			PaymentID: n.PaymentID,
			Reason:    fmt.Sprintf("payment belongs to order %d", order.OrderID),
		}
	}

	switch {
	case n.Status == domain.GatewayStatusConfirmed && n.Success:
		return uc.confirm(ctx, order, n)
	case n.Status == domain.GatewayStatusRejected:
		return uc.commit(ctx, order, domain.StatusCanceled, n.PaymentID)
	default:
		return domain.OutcomeIgnoredStatus, nil
	}
}

// classifyMiss tells a notification for an unknown payment apart from one
// naming a known order and payment with a different amount.
func (uc *DefaultReconcileUsecase) classifyMiss(ctx context.Context, n *domain.PaymentNotification, miss error) (domain.ReconcileOutcome, error) {
	order, err := uc.orderRepo.GetByID(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.OutcomeUnknownOrder, miss
		}
		return domain.OutcomeStorageFailure, err
	}
	if order.HasPayment(n.PaymentID) && order.Amount != n.Amount {
		return domain.OutcomeIntegrity, &domain.IntegrityError{
			OrderID:   order.OrderID,
			PaymentID: n.PaymentID,
			Reason:    fmt.Sprintf("notified amount %d, stored %d", n.Amount, order.Amount),
		}
	}
	return domain.OutcomeUnknownOrder, miss
}

func (uc *DefaultReconcileUsecase) confirm(ctx context.Context, order *domain.Order, n *domain.PaymentNotification) (domain.ReconcileOutcome, error) {
	if order.Status.IsTerminal() {
		return domain.OutcomeDuplicate, nil
	}

	storedAmount, err := uc.orderRepo.GetAmountByOrderID(ctx, order.OrderID)
	if err != nil {
		return domain.OutcomeStorageFailure, err
	}
	if storedAmount != n.Amount {
		return domain.OutcomeIntegrity, &domain.IntegrityError{
			OrderID:   order.OrderID,
			PaymentID: n.PaymentID,
			Reason:    fmt.Sprintf("notified amount %d, stored %d", n.Amount, storedAmount),
		}
	}

	state, err := uc.gateway.GetState(ctx, n.PaymentID)
	if err != nil {
		return domain.OutcomeGatewayFailure, err
	}
	if state.PaymentID != n.PaymentID || state.Amount != storedAmount {
		return domain.OutcomeIntegrity, &domain.IntegrityError{
			OrderID:   order.OrderID,
			PaymentID: n.PaymentID,
			Reason:    fmt.Sprintf("gateway reports payment %d amount %d", state.PaymentID, state.Amount),
		}
	}
	if state.Status != domain.GatewayStatusConfirmed {
		return domain.OutcomeNotYetConfirmed, fmt.Errorf("gateway reports status %s", state.Status)
	}

	return uc.commit(ctx, order, domain.StatusConfirmed, n.PaymentID)
}

func (uc *DefaultReconcileUsecase) commit(ctx context.Context, order *domain.Order, status domain.OrderStatus, paymentID int64) (domain.ReconcileOutcome, error) {
	applied, err := uc.finalizer.Commit(ctx, order, status, paymentID, sourceWebhook)
	if err != nil {
		return domain.OutcomeStorageFailure, err
	}
	if !applied {
		return domain.OutcomeDuplicate, nil
	}
	if status == domain.StatusConfirmed {
		return domain.OutcomeConfirmed, nil
	}
	return domain.OutcomeCanceled, nil
}

func (uc *DefaultReconcileUsecase) saveLog(ctx context.Context, n *domain.PaymentNotification, outcome domain.ReconcileOutcome, cause error) {
	if uc.logRepo == nil {
		return
	}
	entry := &domain.NotificationLog{
		OrderID:   n.OrderID,
		PaymentID: n.PaymentID,
		Amount:    n.Amount,
		Status:    n.Status,
		Outcome:   outcome,
		Error:     errString(cause),
		Payload:   n.Raw,
	}
	if err := uc.logRepo.Save(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("failed to save notification log", "payment_id", n.PaymentID, "error", err.Error())
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
