package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/LavaJover/shvark-acquiring-service/internal/domain"
)

// OrderIDGenerator hands out order ids above both the stored maximum and a floor.
// It is seeded lazily on first use and reseeded after a collision.
type OrderIDGenerator struct {
	mu     sync.Mutex
	repo   domain.OrderRepository
	floor  int64
	last   int64
	seeded bool
}

func NewOrderIDGenerator(repo domain.OrderRepository, floor int64) *OrderIDGenerator {
	return &OrderIDGenerator{repo: repo, floor: floor}
}

func (g *OrderIDGenerator) Next(ctx context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.seeded {
		if err := g.seedLocked(ctx); err != nil {
			return 0, err
		}
	}
	g.last++
	return g.last, nil
}

func (g *OrderIDGenerator) Reseed(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seedLocked(ctx)
}

func (g *OrderIDGenerator) seedLocked(ctx context.Context) error {
	maxID, err := g.repo.MaxOrderID(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed order id generator: %w", err)
	}
	seed := max(maxID, g.floor)
	// never step back below ids already handed out in this process
	g.last = max(seed, g.last)
	g.seeded = true
	return nil
}
