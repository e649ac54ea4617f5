package domain

import (
	"context"
	"time"
)

// OutboxMessage is a finalized event waiting for delivery. It is written in
// the same transaction as the status change it describes and is kept until a
// notifier acknowledges it.
type OutboxMessage struct {
	ID            string
	Event         OrderFinalizedEvent
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
	CreatedAt     time.Time
	SentAt        *time.Time
}

type OutboxRepository interface {
	// FetchDue returns unsent messages whose next attempt is not after now,
	// oldest first.
	FetchDue(ctx context.Context, now time.Time, limit int) ([]*OutboxMessage, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, reason string, retryAt time.Time) error
}
