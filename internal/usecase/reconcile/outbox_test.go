package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/memory"
)

func TestOutboxRelay_RedeliversAfterNotifierFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("Given notifier fails once When a later relay pass runs Then the event is delivered", func(t *testing.T) {
		f := newFixture(t, nil)
		f.notifier.failures = 1

		outcome, err := f.uc.Reconcile(ctx, notification(domain.GatewayStatusConfirmed, true, 10000))
		if err != nil || outcome != domain.OutcomeConfirmed {
			t.Fatalf("expected confirmed, got %s (%v)", outcome, err)
		}
		if len(f.notifier.Events()) != 0 {
			t.Fatal("expected first delivery to fail")
		}

		outcome, _ = f.uc.Reconcile(ctx, notification(domain.GatewayStatusConfirmed, true, 10000))
		if outcome != domain.OutcomeDuplicate {
			t.Fatalf("expected duplicate on replay, got %s", outcome)
		}

		report, err := f.relay.Relay(ctx)
		if err != nil || report.Sent != 0 {
			t.Fatalf("expected nothing due before the retry delay, got %+v (%v)", report, err)
		}

		f.relay.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
		report, err = f.relay.Relay(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Sent != 1 || report.Failed != 0 {
			t.Errorf("unexpected report %+v", report)
		}

		events := f.notifier.Events()
		if len(events) != 1 || events[0].OrderID != 42 || events[0].Status != domain.StatusConfirmed {
			t.Fatalf("expected one confirmed event, got %+v", events)
		}

		report, _ = f.relay.Relay(ctx)
		if report.Sent != 0 || len(f.notifier.Events()) != 1 {
			t.Errorf("expected acknowledged event not to be sent again, got %+v", report)
		}
	})

	t.Run("Given immediate delivery succeeds When relaying later Then nothing is resent", func(t *testing.T) {
		f := newFixture(t, nil)
		if _, err := f.uc.Reconcile(ctx, notification(domain.GatewayStatusConfirmed, true, 10000)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f.relay.now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
		report, _ := f.relay.Relay(ctx)
		if report.Sent != 0 || len(f.notifier.Events()) != 1 {
			t.Errorf("expected exactly one delivery, got report %+v events %d", report, len(f.notifier.Events()))
		}
	})
}

func TestOutboxRelay_Backoff(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	notifier := &recordingNotifier{failures: 2}
	relay := NewOutboxRelay(repo, notifier, nil, time.Minute, 10)

	base := time.Now().UTC()
	relay.now = func() time.Time { return base }

	paymentID := int64(555)
	repo.Create(ctx, &domain.Order{OrderID: 42, Amount: 100, PaymentID: &paymentID, Status: domain.StatusNew})
	msg := relay.NewMessage(domain.OrderFinalizedEvent{EventID: "evt-1", OrderID: 42, PaymentID: 555, Status: domain.StatusCanceled})
	msg.NextAttemptAt = base
	repo.SetStatus(ctx, 42, domain.StatusCanceled, 555, msg)

	t.Run("Given repeated failures When relaying Then retries back off linearly", func(t *testing.T) {
		if report, _ := relay.Relay(ctx); report.Failed != 1 {
			t.Fatalf("expected first attempt to fail, got %+v", report)
		}

		relay.now = func() time.Time { return base.Add(90 * time.Second) }
		if report, _ := relay.Relay(ctx); report.Failed != 1 {
			t.Fatalf("expected second attempt to fail, got %+v", report)
		}

		relay.now = func() time.Time { return base.Add(3 * time.Minute) }
		if report, _ := relay.Relay(ctx); report.Sent != 0 {
			t.Errorf("expected second retry to wait two delays, got %+v", report)
		}

		relay.now = func() time.Time { return base.Add(4 * time.Minute) }
		if report, _ := relay.Relay(ctx); report.Sent != 1 {
			t.Errorf("expected delivery after backoff, got %+v", report)
		}
		if notifier.calls != 3 {
			t.Errorf("expected 3 delivery attempts, got %d", notifier.calls)
		}
	})
}
