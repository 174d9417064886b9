package app

import (
	"sync"
	"time"

	"github.com/hoterry/whatsdish-mobile-sub001/internal/catalog/domain"
)

// MenuCache keeps normalized menus warm per restaurant so reopening a menu
// screen doesn't refetch the upstream catalog.
type MenuCache struct {
	ttl     time.Duration
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	groups    []domain.CategoryGroup
	expiresAt time.Time
}

func NewMenuCache(ttl time.Duration) *MenuCache {
	return &MenuCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *MenuCache) get(restaurantID string) ([]domain.CategoryGroup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[restaurantID]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, restaurantID)
		return nil, false
	}
	return e.groups, true
}

func (c *MenuCache) set(restaurantID string, groups []domain.CategoryGroup) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[restaurantID] = cacheEntry{
		groups:    groups,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops one restaurant's cached menu, e.g. after the upstream
// signals a menu change.
func (c *MenuCache) Invalidate(restaurantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, restaurantID)
}
