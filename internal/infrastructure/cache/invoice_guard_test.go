package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestInMemoryInvoiceGuard_Acquire(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	guard := NewInMemoryInvoiceGuard(time.Hour)
	guard.now = clock.Now
	defer guard.Close()

	t.Run("first acquire wins", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "acme|inv1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second acquire inside the TTL loses", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "acme|inv1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other keys are independent", func(t *testing.T) {
		ok, err := guard.Acquire(ctx, "acme|inv2")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired key can be acquired again", func(t *testing.T) {
		clock.Advance(time.Hour)
		ok, err := guard.Acquire(ctx, "acme|inv1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryInvoiceGuard_Release(t *testing.T) {
	ctx := context.Background()
	guard := NewInMemoryInvoiceGuard(time.Hour)
	defer guard.Close()

	ok, _ := guard.Acquire(ctx, "k")
	require.True(t, ok)
	require.NoError(t, guard.Release(ctx, "k"))

	ok, _ = guard.Acquire(ctx, "k")
	assert.True(t, ok)
	assert.NoError(t, guard.Release(ctx, "never-held"))
}

func TestInMemoryInvoiceGuard_Cleanup(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	guard := NewInMemoryInvoiceGuard(time.Minute)
	guard.now = clock.Now
	defer guard.Close()

	_, _ = guard.Acquire(ctx, "old")
	clock.Advance(30 * time.Second)
	_, _ = guard.Acquire(ctx, "new")
	clock.Advance(45 * time.Second)

	guard.cleanup()
	assert.Equal(t, 1, guard.Size())
}

func TestInMemoryInvoiceGuard_ConcurrentAcquire(t *testing.T) {
	ctx := context.Background()
	guard := NewInMemoryInvoiceGuard(time.Hour)
	defer guard.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := guard.Acquire(ctx, "same"); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, winners.Load())
}

func TestInMemoryInvoiceGuard_CloseIsIdempotent(t *testing.T) {
	guard := NewInMemoryInvoiceGuard(time.Hour)
	assert.NoError(t, guard.Close())
	assert.NoError(t, guard.Close())
}
