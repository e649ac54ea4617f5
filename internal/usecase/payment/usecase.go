package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/metrics"
)

const maxCreateAttempts = 3

type SessionUsecase interface {
	InitiateOrder(ctx context.Context, purchaser domain.PurchaserContext, amount int64, shipping bool, opts InitiateOptions) (*InitiateResult, error)
}

type InitiateOptions struct {
	Comment     string
	Description string
	// Lines itemize the fiscal receipt; sent only when the purchaser left an email or phone.
	Lines []domain.CheckoutLine
}

type InitiateResult struct {
	OrderID    int64
	PaymentID  int64
	PaymentURL string
}

type Config struct {
	BaseURL     string
	Description string
	Taxation    string
}

type DefaultSessionUsecase struct {
	orderRepo domain.OrderRepository
	gateway   domain.PaymentGateway
	ids       *OrderIDGenerator
	cfg       Config
	metrics   *metrics.PaymentMetrics
}

func NewDefaultSessionUsecase(
	orderRepo domain.OrderRepository,
	gateway domain.PaymentGateway,
	ids *OrderIDGenerator,
	cfg Config,
	paymentMetrics *metrics.PaymentMetrics,
) *DefaultSessionUsecase {
	if cfg.Taxation == "" {
		cfg.Taxation = "usn_income"
	}
	return &DefaultSessionUsecase{
		orderRepo: orderRepo,
		gateway:   gateway,
		ids:       ids,
		cfg:       cfg,
		metrics:   paymentMetrics,
	}
}

// InitiateOrder opens a gateway payment session and persists the order in
// status new. Nothing is persisted when the gateway call fails, and the
// gateway session is canceled when persisting fails.
func (uc *DefaultSessionUsecase) InitiateOrder(
	ctx context.Context,
	purchaser domain.PurchaserContext,
	amount int64,
	shipping bool,
	opts InitiateOptions,
) (*InitiateResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	for attempt := 1; ; attempt++ {
		result, err := uc.initiateOnce(ctx, purchaser, amount, shipping, opts)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrDuplicateOrderID) || attempt == maxCreateAttempts {
			uc.metrics.RecordSessionFailure(domain.ErrorKind(err))
			return nil, fmt.Errorf("%w: %w", domain.ErrSessionCreation, err)
		}

		slog.Warn("order id collision, reseeding generator", "attempt", attempt, "tg_id", purchaser.TgID)
		if err := uc.ids.Reseed(ctx); err != nil {
			uc.metrics.RecordSessionFailure(domain.ErrorKind(err))
			return nil, fmt.Errorf("%w: %w", domain.ErrSessionCreation, err)
		}
	}
}

func (uc *DefaultSessionUsecase) initiateOnce(
	ctx context.Context,
	purchaser domain.PurchaserContext,
	amount int64,
	shipping bool,
	opts InitiateOptions,
) (*InitiateResult, error) {
	orderID, err := uc.ids.Next(ctx)
	if err != nil {
		return nil, err
	}

	req, err := uc.buildInitRequest(orderID, purchaser, amount, shipping, opts)
	if err != nil {
		return nil, err
	}

	init, err := uc.gateway.InitPayment(ctx, req)
	if err != nil {
		slog.Error("failed to init payment session",
			"order_id", orderID,
			"tg_id", purchaser.TgID,
			"amount", amount,
			"kind", domain.ErrorKind(err),
			"error", err.Error(),
		)
		return nil, err
	}

	paymentID := init.PaymentID
	order := &domain.Order{
		OrderID:   orderID,
		TgID:      purchaser.TgID,
		Amount:    amount,
		PaymentID: &paymentID,
		Status:    domain.StatusNew,
		Comment:   opts.Comment,
	}
	if shipping {
		order.Address = purchaser.Address
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		slog.Error("failed to persist order, canceling gateway session",
			"order_id", orderID,
			"payment_id", paymentID,
			"error", err.Error(),
		)
		uc.cancelSession(ctx, orderID, paymentID)
		return nil, err
	}

	uc.metrics.RecordOrderCreated(amount)
	slog.Info("payment session created",
		"order_id", orderID,
		"payment_id", paymentID,
		"tg_id", purchaser.TgID,
		"amount", amount,
		"shipping", shipping,
	)

	return &InitiateResult{
		OrderID:    orderID,
		PaymentID:  paymentID,
		PaymentURL: init.PaymentURL,
	}, nil
}

func (uc *DefaultSessionUsecase) cancelSession(ctx context.Context, orderID, paymentID int64) {
	if _, err := uc.gateway.Cancel(context.WithoutCancel(ctx), paymentID); err != nil {
		slog.Error("failed to cancel orphaned payment session",
			"order_id", orderID,
			"payment_id", paymentID,
			"error", err.Error(),
		)
	}
}

func (uc *DefaultSessionUsecase) buildInitRequest(
	orderID int64,
	purchaser domain.PurchaserContext,
	amount int64,
	shipping bool,
	opts InitiateOptions,
) (*domain.InitPaymentRequest, error) {
	successURL, err := url.JoinPath(uc.cfg.BaseURL, "payment", "success")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	failURL, err := url.JoinPath(uc.cfg.BaseURL, "payment", "fail")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	notificationURL, err := url.JoinPath(uc.cfg.BaseURL, "payment_hook")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	description := opts.Description
	if description == "" {
		description = uc.cfg.Description
	}

	req := &domain.InitPaymentRequest{
		Amount:          amount,
		OrderID:         orderID,
		Description:     description,
		SuccessURL:      successURL,
		FailURL:         failURL,
		NotificationURL: notificationURL,
		Data: map[string]string{
			"tg_id":    strconv.FormatInt(purchaser.TgID, 10),
			"shipping": strconv.FormatBool(shipping),
		},
	}
	if purchaser.ChatID != 0 {
		req.Data["chat_id"] = strconv.FormatInt(purchaser.ChatID, 10)
	}
	if purchaser.Email != "" || purchaser.Phone != "" {
		req.Receipt = buildReceipt(purchaser, amount, description, uc.cfg.Taxation, opts.Lines)
	}
	return req, nil
}

func buildReceipt(purchaser domain.PurchaserContext, amount int64, description, taxation string, lines []domain.CheckoutLine) *domain.Receipt {
	receipt := &domain.Receipt{
		Email:    purchaser.Email,
		Phone:    purchaser.Phone,
		Taxation: taxation,
	}

	var itemized int64
	for _, line := range lines {
		itemized += line.Amount
	}
	if len(lines) == 0 || itemized != amount {
		receipt.Items = []domain.ReceiptItem{{
			Name:     description,
			Price:    amount,
			Quantity: 1,
			Amount:   amount,
			Tax:      "none",
		}}
		return receipt
	}

	for _, line := range lines {
		receipt.Items = append(receipt.Items, domain.ReceiptItem{
			Name:     line.Title,
			Price:    line.Amount,
			Quantity: 1,
			Amount:   line.Amount,
			Tax:      "none",
		})
	}
	return receipt
}
