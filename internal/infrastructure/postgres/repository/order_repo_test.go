package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.OrderModel{}, &models.PaymentNotificationLogModel{}, &models.OrderOutboxModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func ptr(v int64) *int64 { return &v }

func seedOrder(t *testing.T, repo *DefaultOrderRepository, orderID, paymentID, amount int64) *domain.Order {
	t.Helper()
	order := &domain.Order{
		OrderID:   orderID,
		TgID:      777,
		Amount:    amount,
		PaymentID: ptr(paymentID),
		Status:    domain.StatusNew,
	}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return order
}

func TestDefaultOrderRepository_CreateAndLookup(t *testing.T) {
	repo := NewDefaultOrderRepository(newTestDB(t))
	ctx := context.Background()
	seedOrder(t, repo, 42, 555, 10000)

	t.Run("Given stored order When looking up by payment and amount Then it is found", func(t *testing.T) {
		order, err := repo.GetByPaymentAndAmount(ctx, 555, 10000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.OrderID != 42 || order.Status != domain.StatusNew || !order.HasPayment(555) {
			t.Errorf("unexpected order %+v", order)
		}
	})

	t.Run("Given mismatching amount When looking up Then ErrOrderNotFound", func(t *testing.T) {
		_, err := repo.GetByPaymentAndAmount(ctx, 555, 9999)
		if !errors.Is(err, domain.ErrOrderNotFound) {
			t.Errorf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("Given stored order When reading amount Then stored amount is returned", func(t *testing.T) {
		amount, err := repo.GetAmountByOrderID(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if amount != 10000 {
			t.Errorf("expected 10000, got %d", amount)
		}
	})

	t.Run("Given unknown order When reading amount Then ErrOrderNotFound", func(t *testing.T) {
		if _, err := repo.GetAmountByOrderID(ctx, 1); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Errorf("expected ErrOrderNotFound, got %v", err)
		}
		if _, err := repo.GetByID(ctx, 1); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Errorf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("Given existing order id When creating again Then an error is returned", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Order{OrderID: 42, TgID: 1, Amount: 1, PaymentID: ptr(1), Status: domain.StatusNew})
		if err == nil {
			t.Error("expected duplicate order id to be rejected")
		}
	})

	t.Run("Given non-positive amount When creating Then ErrInvalidAmount", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Order{OrderID: 43, Amount: 0, Status: domain.StatusNew})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("Given orders When asking max id Then the largest id is returned", func(t *testing.T) {
		seedOrder(t, repo, 120, 556, 500)
		maxID, err := repo.MaxOrderID(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if maxID != 120 {
			t.Errorf("expected 120, got %d", maxID)
		}
	})
}

func TestDefaultOrderRepository_MaxOrderIDEmpty(t *testing.T) {
	repo := NewDefaultOrderRepository(newTestDB(t))

	maxID, err := repo.MaxOrderID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maxID != 0 {
		t.Errorf("expected 0 on empty table, got %d", maxID)
	}
}

func TestDefaultOrderRepository_SetStatus(t *testing.T) {
	repo := NewDefaultOrderRepository(newTestDB(t))
	ctx := context.Background()
	seedOrder(t, repo, 42, 555, 10000)

	t.Run("Given new order When confirming Then transition applies once", func(t *testing.T) {
		applied, err := repo.SetStatus(ctx, 42, domain.StatusConfirmed, 555, nil)
		if err != nil || !applied {
			t.Fatalf("expected applied transition, got applied=%v err=%v", applied, err)
		}

		applied, err = repo.SetStatus(ctx, 42, domain.StatusConfirmed, 555, nil)
		if err != nil || applied {
			t.Errorf("expected replay to be a no-op, got applied=%v err=%v", applied, err)
		}

		applied, err = repo.SetStatus(ctx, 42, domain.StatusCanceled, 555, nil)
		if err != nil || applied {
			t.Errorf("expected terminal status to be kept, got applied=%v err=%v", applied, err)
		}

		order, _ := repo.GetByID(ctx, 42)
		if order.Status != domain.StatusConfirmed {
			t.Errorf("expected confirmed, got %s", order.Status)
		}
	})

	t.Run("Given wrong payment id When updating Then nothing changes", func(t *testing.T) {
		seedOrder(t, repo, 43, 600, 100)
		applied, err := repo.SetStatus(ctx, 43, domain.StatusCanceled, 601, nil)
		if err != nil || applied {
			t.Errorf("expected guard to reject, got applied=%v err=%v", applied, err)
		}
	})

	t.Run("Given non-terminal target When updating Then error is returned", func(t *testing.T) {
		if _, err := repo.SetStatus(ctx, 43, domain.StatusNew, 600, nil); err == nil {
			t.Error("expected error for non-terminal target")
		}
	})
}

func TestDefaultOrderRepository_SetStatusConcurrent(t *testing.T) {
	repo := NewDefaultOrderRepository(newTestDB(t))
	ctx := context.Background()
	seedOrder(t, repo, 42, 555, 10000)

	var (
		wg      sync.WaitGroup
		applied atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.SetStatus(ctx, 42, domain.StatusConfirmed, 555, nil)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()

	if applied.Load() != 1 {
		t.Errorf("expected exactly one applied transition, got %d", applied.Load())
	}
}

func TestDefaultOrderRepository_FindPendingBefore(t *testing.T) {
	db := newTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := []models.OrderModel{
		{OrderID: 1, TgID: 1, Amount: 100, PaymentID: ptr(11), Status: domain.StatusNew, CreatedAt: now.Add(-48 * time.Hour)},
		{OrderID: 2, TgID: 1, Amount: 100, PaymentID: ptr(12), Status: domain.StatusConfirmed, CreatedAt: now.Add(-48 * time.Hour)},
		{OrderID: 3, TgID: 1, Amount: 100, PaymentID: ptr(13), Status: domain.StatusNew, CreatedAt: now.Add(-time.Minute)},
		{OrderID: 4, TgID: 1, Amount: 100, PaymentID: ptr(14), Status: domain.StatusNew, CreatedAt: now.Add(-72 * time.Hour)},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	orders, err := repo.FindPendingBefore(ctx, now.Add(-24*time.Hour), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 stale orders, got %d", len(orders))
	}
	if orders[0].OrderID != 4 || orders[1].OrderID != 1 {
		t.Errorf("expected oldest first (4, 1), got (%d, %d)", orders[0].OrderID, orders[1].OrderID)
	}

	limited, err := repo.FindPendingBefore(ctx, now.Add(-24*time.Hour), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}
