package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/reconcile"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep(context.Context) (reconcile.SweepReport, error) {
	s.calls.Add(1)
	return reconcile.SweepReport{Checked: 1, Canceled: 1}, nil
}

type countingRelay struct {
	calls atomic.Int32
}

func (r *countingRelay) Relay(context.Context) (reconcile.RelayReport, error) {
	r.calls.Add(1)
	return reconcile.RelayReport{Sent: 1}, nil
}

func TestBackgroundTasks(t *testing.T) {
	t.Run("Given a short interval When started Then the sweeper runs until ctx is canceled", func(t *testing.T) {
		sweeper := &countingSweeper{}
		ctx, cancel := context.WithCancel(context.Background())
		NewBackgroundTasks(sweeper, 5*time.Millisecond, nil, 0).StartAll(ctx)

		deadline := time.Now().Add(2 * time.Second)
		for sweeper.calls.Load() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
		if sweeper.calls.Load() < 2 {
			t.Fatalf("expected at least 2 sweeps, got %d", sweeper.calls.Load())
		}
	})

	t.Run("Given a zero interval When started Then nothing runs", func(t *testing.T) {
		sweeper := &countingSweeper{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		NewBackgroundTasks(sweeper, 0, nil, 0).StartAll(ctx)

		time.Sleep(20 * time.Millisecond)
		if sweeper.calls.Load() != 0 {
			t.Fatalf("expected no sweeps, got %d", sweeper.calls.Load())
		}
	})

	t.Run("Given an outbox interval When started Then the relay runs until ctx is canceled", func(t *testing.T) {
		relay := &countingRelay{}
		ctx, cancel := context.WithCancel(context.Background())
		NewBackgroundTasks(nil, 0, relay, 5*time.Millisecond).StartAll(ctx)

		deadline := time.Now().Add(2 * time.Second)
		for relay.calls.Load() < 2 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
		if relay.calls.Load() < 2 {
			t.Fatalf("expected at least 2 relay passes, got %d", relay.calls.Load())
		}
	})
}
