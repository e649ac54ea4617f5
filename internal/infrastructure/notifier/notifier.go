package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

type FailureRecorder interface {
	RecordFulfillmentFailure(notifier string)
}

type target struct {
	name     string
	notifier domain.OrderNotifier
}

// Multi delivers every event to all registered notifiers, even if some fail.
type Multi struct {
	targets  []target
	failures FailureRecorder
}

func NewMulti(failures FailureRecorder) *Multi {
	return &Multi{failures: failures}
}

func (m *Multi) Add(name string, n domain.OrderNotifier) *Multi {
	if n != nil {
		m.targets = append(m.targets, target{name: name, notifier: n})
	}
	return m
}

func (m *Multi) Len() int {
	return len(m.targets)
}

func (m *Multi) NotifyOrderFinalized(ctx context.Context, event domain.OrderFinalizedEvent) error {
	var errs []error
	for _, t := range m.targets {
		if err := t.notifier.NotifyOrderFinalized(ctx, event); err != nil {
			slog.Error("failed to deliver order event",
				"notifier", t.name,
				"order_id", event.OrderID,
				"status", event.Status,
				"error", err.Error(),
			)
			if m.failures != nil {
				m.failures.RecordFulfillmentFailure(t.name)
			}
			errs = append(errs, fmt.Errorf("%s: %w", t.name, err))
		}
	}
	return errors.Join(errs...)
}
