// Package cache stores simulation outcomes keyed by a hash of their inputs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/immorechner/property-calculator/internal/domain"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache holds outcomes of earlier simulations.
type Cache interface {
	Get(ctx context.Context, key string) (domain.Outcome, error)
	Set(ctx context.Context, key string, outcome domain.Outcome) error
}

// Key derives a stable cache key from the request kind and its inputs.
// The inputs are hashed through their JSON encoding so equal requests share a key.
func Key(kind string, inputs any) (string, error) {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("encode cache key inputs: %w", err)
	}
	return kind + ":" + strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

type memoryEntry struct {
	outcome domain.Outcome
	expires time.Time
}

var _ Cache = (*MemoryCache)(nil)

// MemoryCache is an in-process Cache with a fixed time to live.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache creates an empty cache. A ttl of zero keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (domain.Outcome, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.Outcome{}, ErrMiss
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return domain.Outcome{}, ErrMiss
	}
	return e.outcome, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, outcome domain.Outcome) error {
	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = memoryEntry{outcome: outcome, expires: expires}
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
