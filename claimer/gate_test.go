package claimer

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// concurrencyProbe tracks how many callers are inside at once.
type concurrencyProbe struct {
	inside  atomic.Int32
	maxSeen atomic.Int32
}

func (p *concurrencyProbe) enter() {
	n := p.inside.Add(1)
	for {
		m := p.maxSeen.Load()
		if n <= m || p.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	p.inside.Add(-1)
}

func TestGateSerializesWithCapacityOne(t *testing.T) {
	gate := NewGate(1)
	probe := &concurrencyProbe{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, gate.Run(context.Background(), func(ctx context.Context) {
				probe.enter()
			}))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), probe.maxSeen.Load())
}

func TestGateBoundsConcurrency(t *testing.T) {
	gate := NewGate(3)
	probe := &concurrencyProbe{}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = gate.Run(context.Background(), func(ctx context.Context) {
				probe.enter()
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, probe.maxSeen.Load(), int32(3))
	assert.Equal(t, 3, gate.Capacity())
}

func TestGateReleasesOnPanic(t *testing.T) {
	gate := NewGate(1)

	func() {
		defer func() { _ = recover() }()
		_ = gate.Run(context.Background(), func(ctx context.Context) {
			panic("boom")
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, gate.Acquire(ctx))
	gate.Release()
}

func TestGateAcquireHonoursContext(t *testing.T) {
	gate := NewGate(1)
	require.NoError(t, gate.Acquire(context.Background()))
	defer gate.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, gate.Acquire(ctx), context.DeadlineExceeded)
}

func TestNewGateClampsCapacity(t *testing.T) {
	assert.Equal(t, 1, NewGate(0).Capacity())
}
