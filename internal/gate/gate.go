// Package gate bounds how many expensive operations may run at once.
package gate

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"ocrgate/internal/domain"
)

// DefaultCapacity is the number of concurrent extractions allowed when no
// capacity is configured.
const DefaultCapacity = 3

// Gate is a counting admission gate. Acquire and Release are safe for
// concurrent use; Stats never blocks.
type Gate struct {
	capacity int64
	sem      *semaphore.Weighted
	inUse    atomic.Int64
}

// New creates a Gate with the given capacity. Capacities below 1 become 1.
func New(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		capacity: int64(capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
	}
}

// Acquire blocks until a slot is free or ctx is done. On error no slot is held.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.inUse.Add(1)
	return nil
}

// TryAcquire takes a slot only if one is free right now.
func (g *Gate) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.inUse.Add(1)
	return true
}

// Release returns a slot taken by Acquire. Releasing more slots than were
// acquired panics.
func (g *Gate) Release() {
	if g.inUse.Add(-1) < 0 {
		g.inUse.Add(1)
		panic("gate: release without matching acquire")
	}
	g.sem.Release(1)
}

// Do runs fn while holding a slot. The slot is released on every exit path,
// including a panic in fn, which is propagated after release.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn()
}

// Capacity returns the configured number of slots.
func (g *Gate) Capacity() int {
	return int(g.capacity)
}

// Stats returns a snapshot of the gate.
func (g *Gate) Stats() domain.GateStats {
	inUse := int(g.inUse.Load())
	return domain.GateStats{
		Capacity:  int(g.capacity),
		Available: int(g.capacity) - inUse,
		InUse:     inUse,
	}
}
