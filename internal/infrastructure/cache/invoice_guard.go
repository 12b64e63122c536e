package cache

import (
	"context"
	"sync"
	"time"
)

// entry represents a held key with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryInvoiceGuard remembers accepted invoice fingerprints for a TTL.
// This is suitable for single-instance deployments and testing.
type InMemoryInvoiceGuard struct {
	mu        sync.Mutex
	entries   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryInvoiceGuard creates a guard holding keys for ttl.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryInvoiceGuard(ttl time.Duration) *InMemoryInvoiceGuard {
	g := &InMemoryInvoiceGuard{
		entries:  make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	g.wg.Add(1)
	go g.cleanupLoop()

	return g
}

// Acquire holds key for the TTL. It returns false if key is already held.
func (g *InMemoryInvoiceGuard) Acquire(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if e, exists := g.entries[key]; exists && now.Before(e.expiresAt) {
		return false, nil
	}
	g.entries[key] = entry{expiresAt: now.Add(g.ttl)}
	return true, nil
}

// Release frees key so the invoice can be submitted again
func (g *InMemoryInvoiceGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (g *InMemoryInvoiceGuard) Close() error {
	g.closeOnce.Do(func() {
		close(g.stopChan)
		g.wg.Wait()
	})
	return nil
}

func (g *InMemoryInvoiceGuard) cleanupLoop() {
	defer g.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopChan:
			return
		case <-ticker.C:
			g.cleanup()
		}
	}
}

func (g *InMemoryInvoiceGuard) cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for key, e := range g.entries {
		if !now.Before(e.expiresAt) {
			delete(g.entries, key)
		}
	}
}

// Size returns the number of entries in the guard (for testing/monitoring)
func (g *InMemoryInvoiceGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
