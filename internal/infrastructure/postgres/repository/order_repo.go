package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if !order.Status.Valid() {
		return fmt.Errorf("invalid order status %q", order.Status)
	}

	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOrderID
		}
		return storageError("create order", err, "order_id", order.OrderID)
	}

	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, storageError("get order", err, "order_id", orderID)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) GetAmountByOrderID(ctx context.Context, orderID int64) (int64, error) {
	var amounts []int64
	err := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("order_id = ?", orderID).
		Limit(1).
		Pluck("amount", &amounts).Error
	if err != nil {
		return 0, storageError("get order amount", err, "order_id", orderID)
	}
	if len(amounts) == 0 {
		return 0, domain.ErrOrderNotFound
	}
	return amounts[0], nil
}

func (r *DefaultOrderRepository) GetByPaymentAndAmount(ctx context.Context, paymentID, amount int64) (*domain.Order, error) {
	var order models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("payment_id = ? AND amount = ?", paymentID, amount).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, storageError("find order by payment", err, "payment_id", paymentID)
	}
	return mappers.ToDomainOrder(&order), nil
}

// SetStatus is a compare-and-swap on status: only a `new` row with the
// given payment id is moved, so concurrent callers see at most one success.
// The outbox row commits or rolls back together with the status change.
func (r *DefaultOrderRepository) SetStatus(
	ctx context.Context,
	orderID int64,
	status domain.OrderStatus,
	paymentID int64,
	msg *domain.OutboxMessage,
) (bool, error) {
	if !status.IsTerminal() {
		return false, fmt.Errorf("status %q is not a terminal status", status)
	}

	var applied bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		result := tx.Model(&models.OrderModel{}).
			Where("order_id = ? AND payment_id = ? AND status = ?", orderID, paymentID, domain.StatusNew).
			Updates(map[string]any{
				"status":     status,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return nil
		}

		if msg != nil {
			if msg.CreatedAt.IsZero() {
				msg.CreatedAt = now
			}
			if err := tx.Create(mappers.ToGORMOutbox(msg)).Error; err != nil {
				return err
			}
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, storageError("set order status", err, "order_id", orderID)
	}
	return applied, nil
}

func (r *DefaultOrderRepository) MaxOrderID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("COALESCE(MAX(order_id), 0)").
		Scan(&maxID).Error
	if err != nil {
		return 0, storageError("max order id", err)
	}
	return maxID, nil
}

func (r *DefaultOrderRepository) FindPendingBefore(ctx context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND payment_id IS NOT NULL AND created_at < ?", domain.StatusNew, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&orderModels).Error
	if err != nil {
		return nil, storageError("find pending orders", err)
	}

	orders := make([]*domain.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, mappers.ToDomainOrder(&orderModels[i]))
	}
	return orders, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func storageError(op string, err error, attrs ...any) error {
	slog.Error("order store failure", append([]any{"op", op, "error", err.Error()}, attrs...)...)
	return &domain.StorageError{Op: op, Err: err}
}
