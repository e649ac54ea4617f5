package memory

import (
	"context"
	"sync"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
	"github.com/google/uuid"
)

type NotificationLogRepository struct {
	mu      sync.Mutex
	entries []domain.NotificationLog
}

func NewNotificationLogRepository() *NotificationLogRepository {
	return &NotificationLogRepository{}
}

func (r *NotificationLogRepository) Save(_ context.Context, entry *domain.NotificationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// Entries returns a snapshot of saved entries in arrival order.
func (r *NotificationLogRepository) Entries() []domain.NotificationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.NotificationLog, len(r.entries))
	copy(out, r.entries)
	return out
}
