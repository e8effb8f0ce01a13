package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryCache is the in-process SimulationCache used when Redis is disabled.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[uuid.UUID]memoryItem
	now   func() time.Time
}

var _ SimulationCache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[uuid.UUID]memoryItem),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) (*Entry, error) {
	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()

	if !ok || (!item.expiresAt.IsZero() && !c.now().Before(item.expiresAt)) {
		return nil, ErrMiss
	}
	entry := Entry{InputHash: item.entry.InputHash, Payload: append([]byte(nil), item.entry.Payload...)}
	return &entry, nil
}

// Set stores entry. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, userID uuid.UUID, entry Entry, ttl time.Duration) error {
	item := memoryItem{entry: Entry{InputHash: entry.InputHash, Payload: append([]byte(nil), entry.Payload...)}}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items[userID] = item
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
