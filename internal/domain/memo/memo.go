// Package memo provides the result cache sitting between the pure
// analytics pipeline and the presentation layer. Results are keyed by a
// content hash of the input table plus the governing parameters, so any
// change to either invalidates the entry without the pipeline itself
// carrying state.
package memo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pepmove/fleetboard/pkg/metrics"
)

// Cache memoizes computed results keyed by input-content identity.
type Cache interface {
	// GetOrCompute returns the cached value for key, computing and
	// recording it on a miss. compute runs at most once per miss; it is
	// not deduplicated across concurrent callers with the same key.
	GetOrCompute(ctx context.Context, key string, compute func() (any, error)) (any, error)

	// Purge drops every cached entry.
	Purge(ctx context.Context)

	Size() int64
}

// inMemoryCache implements Cache with a mutex-guarded map. Bounded mode
// (maxSize > 0) evicts the most recently added entry when full, keeping
// long-lived keys warm; maxSize <= 0 disables eviction.
type inMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]any
	stack   []string
	maxSize int
	size    atomic.Int64
}

// NewInMemoryCache creates a result cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 64,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]any)
	return c
}

func (c *inMemoryCache) GetOrCompute(ctx context.Context, key string, compute func() (any, error)) (any, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		metrics.RecordCacheHit()
		return v, nil
	}

	metrics.RecordCacheMiss()
	v, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.entries[key]; ok {
		// Another caller computed it first; keep the recorded value.
		c.mu.Unlock()
		return existing, nil
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evict()
	}
	c.entries[key] = v
	c.stack = append(c.stack, key)
	c.size.Store(int64(len(c.entries)))
	c.mu.Unlock()

	metrics.UpdateCacheSize(int(c.size.Load()))
	return v, nil
}

// evict removes the most recently added entry. Must be called with
// c.mu held.
func (c *inMemoryCache) evict() {
	for len(c.stack) > 0 {
		last := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if _, ok := c.entries[last]; ok {
			delete(c.entries, last)
			return
		}
	}
}

func (c *inMemoryCache) Purge(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]any)
	c.stack = nil
	c.size.Store(0)
	c.mu.Unlock()

	metrics.UpdateCacheSize(0)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
