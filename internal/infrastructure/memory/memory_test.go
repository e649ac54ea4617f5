package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	paymentID := int64(555)

	if err := repo.Create(ctx, &domain.Order{OrderID: 42, Amount: 10000, PaymentID: &paymentID, Status: domain.StatusNew}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Given duplicate id When creating Then ErrDuplicateOrderID", func(t *testing.T) {
		err := repo.Create(ctx, &domain.Order{OrderID: 42, Amount: 1, Status: domain.StatusNew})
		if !errors.Is(err, domain.ErrDuplicateOrderID) {
			t.Errorf("expected ErrDuplicateOrderID, got %v", err)
		}
	})

	t.Run("Given returned order When mutated Then store is unaffected", func(t *testing.T) {
		order, _ := repo.GetByID(ctx, 42)
		*order.PaymentID = 1
		again, _ := repo.GetByID(ctx, 42)
		if !again.HasPayment(555) {
			t.Error("expected stored payment id to be isolated from callers")
		}
	})

	t.Run("Given new order When setting status twice Then only first applies", func(t *testing.T) {
		first, _ := repo.SetStatus(ctx, 42, domain.StatusCanceled, 555, nil)
		second, _ := repo.SetStatus(ctx, 42, domain.StatusConfirmed, 555, nil)
		if !first || second {
			t.Errorf("expected (true, false), got (%v, %v)", first, second)
		}
	})
}

func TestOrderRepository_Outbox(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	newRepo := func(t *testing.T) *OrderRepository {
		t.Helper()
		repo := NewOrderRepository()
		paymentID := int64(555)
		if err := repo.Create(ctx, &domain.Order{OrderID: 42, Amount: 10000, PaymentID: &paymentID, Status: domain.StatusNew}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return repo
	}
	message := func(id string) *domain.OutboxMessage {
		return &domain.OutboxMessage{
			ID:            id,
			Event:         domain.OrderFinalizedEvent{EventID: id, OrderID: 42, PaymentID: 555, Status: domain.StatusConfirmed},
			NextAttemptAt: now,
		}
	}

	t.Run("Given applied transition When fetching due Then message is returned until marked sent", func(t *testing.T) {
		repo := newRepo(t)
		if applied, _ := repo.SetStatus(ctx, 42, domain.StatusConfirmed, 555, message("evt-1")); !applied {
			t.Fatal("expected transition to apply")
		}

		due, _ := repo.FetchDue(ctx, now, 10)
		if len(due) != 1 || due[0].Event.OrderID != 42 {
			t.Fatalf("expected one due message, got %+v", due)
		}
		if err := repo.MarkSent(ctx, "evt-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if due, _ := repo.FetchDue(ctx, now.Add(time.Hour), 10); len(due) != 0 {
			t.Errorf("expected nothing due after MarkSent, got %d", len(due))
		}
	})

	t.Run("Given guard miss When setting status Then no message is stored", func(t *testing.T) {
		repo := newRepo(t)
		repo.SetStatus(ctx, 42, domain.StatusCanceled, 555, nil)

		if applied, _ := repo.SetStatus(ctx, 42, domain.StatusConfirmed, 555, message("evt-2")); applied {
			t.Fatal("expected guard miss")
		}
		if due, _ := repo.FetchDue(ctx, now.Add(time.Hour), 10); len(due) != 0 {
			t.Errorf("expected no message for a skipped transition, got %d", len(due))
		}
	})

	t.Run("Given failed delivery When fetching before retry time Then message is held back", func(t *testing.T) {
		repo := newRepo(t)
		repo.SetStatus(ctx, 42, domain.StatusConfirmed, 555, message("evt-3"))

		if err := repo.MarkFailed(ctx, "evt-3", "broker down", now.Add(time.Minute)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if due, _ := repo.FetchDue(ctx, now, 10); len(due) != 0 {
			t.Errorf("expected message to wait for retry, got %d", len(due))
		}
		due, _ := repo.FetchDue(ctx, now.Add(time.Minute), 10)
		if len(due) != 1 || due[0].Attempts != 1 || due[0].LastError != "broker down" {
			t.Errorf("unexpected retry state %+v", due)
		}
	})
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.Set(ctx, &domain.Session{ChatID: 7, Selection: domain.Selection{"1": {"a"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("Given stored session When reading Then selection is returned", func(t *testing.T) {
		s, _ := store.Get(ctx, 7)
		if len(s.Selection["1"]) != 1 {
			t.Errorf("unexpected selection %v", s.Selection)
		}
	})

	t.Run("Given expired session When reading Then empty session is returned", func(t *testing.T) {
		store.now = func() time.Time { return now.Add(2 * time.Hour) }
		s, _ := store.Get(ctx, 7)
		if len(s.Selection) != 0 || s.ChatID != 7 {
			t.Errorf("expected empty session, got %+v", s)
		}
	})
}
