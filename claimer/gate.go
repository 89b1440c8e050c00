package claimer

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate admits at most capacity workflows at once.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
}

func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

func (g *Gate) Capacity() int {
	return g.capacity
}

// Acquire blocks until a slot is free. Waiters are admitted in arrival order.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *Gate) Release() {
	g.sem.Release(1)
}

// Run holds one slot while fn executes and releases it even if fn panics.
func (g *Gate) Run(ctx context.Context, fn func(ctx context.Context)) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	fn(ctx)
	return nil
}
