package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/usecase/reconcile"
)

type Sweeper interface {
	Sweep(ctx context.Context) (reconcile.SweepReport, error)
}

type Relay interface {
	Relay(ctx context.Context) (reconcile.RelayReport, error)
}

type BackgroundTasks struct {
	Sweeper        Sweeper
	SweepInterval  time.Duration
	Relay          Relay
	OutboxInterval time.Duration
}

func NewBackgroundTasks(sweeper Sweeper, sweepInterval time.Duration, relay Relay, outboxInterval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		Sweeper:        sweeper,
		SweepInterval:  sweepInterval,
		Relay:          relay,
		OutboxInterval: outboxInterval,
	}
}

// StartAll launches the periodic jobs; they stop when ctx is done.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.Sweeper != nil && bt.SweepInterval > 0 {
		go bt.startPendingSweep(ctx)
	}
	if bt.Relay != nil && bt.OutboxInterval > 0 {
		go bt.startOutboxRelay(ctx)
	}
}

func (bt *BackgroundTasks) startOutboxRelay(ctx context.Context) {
	ticker := time.NewTicker(bt.OutboxInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.relayOnce(ctx)
		}
	}
}

func (bt *BackgroundTasks) relayOnce(ctx context.Context) {
	report, err := bt.Relay.Relay(ctx)
	if err != nil {
		slog.Error("outbox relay failed", "error", err.Error())
		return
	}
	if report.Sent+report.Failed > 0 {
		slog.Info("outbox relayed", "sent", report.Sent, "failed", report.Failed)
	}
}

func (bt *BackgroundTasks) startPendingSweep(ctx context.Context) {
	ticker := time.NewTicker(bt.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.sweepOnce(ctx)
		}
	}
}

func (bt *BackgroundTasks) sweepOnce(ctx context.Context) {
	report, err := bt.Sweeper.Sweep(ctx)
	if err != nil {
		slog.Error("pending order sweep failed", "error", err.Error())
		return
	}
	if report.Checked > 0 {
		slog.Info("pending orders swept",
			"checked", report.Checked,
			"confirmed", report.Confirmed,
			"canceled", report.Canceled,
			"skipped", report.Skipped,
		)
	}
}
