package auth

import (
	"sync"
	"time"

	"github.com/camisetaria/backend/internal/models"
)

type cacheEntry struct {
	user     models.User
	cachedAt time.Time
}

// UserCache memoizes identity lookups by user id for a bounded TTL, saving a
// database round trip on every authenticated request. Expiry is lazy: an
// entry older than the TTL is treated as absent and removed on read; there is
// no background sweep.
//
// Entries are NOT evicted automatically when an identity is mutated. Any
// collaborator that changes a user's active or role fields must call
// Invalidate, otherwise stale access decisions persist until the TTL elapses.
type UserCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]cacheEntry
}

// NewUserCache creates a cache whose entries expire after ttl.
func NewUserCache(ttl time.Duration) *UserCache {
	return newUserCache(ttl, time.Now)
}

func newUserCache(ttl time.Duration, now func() time.Time) *UserCache {
	return &UserCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[int64]cacheEntry),
	}
}

// Get returns the cached user for id if the entry is younger than the TTL.
func (c *UserCache) Get(id int64) (models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return models.User{}, false
	}
	if c.now().Sub(entry.cachedAt) >= c.ttl {
		delete(c.entries, id)
		return models.User{}, false
	}
	return entry.user, true
}

// Put stores a snapshot of the user, overwriting any existing entry and
// resetting its age.
func (c *UserCache) Put(id int64, user models.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = cacheEntry{user: user, cachedAt: c.now()}
}

// Invalidate removes the entry for id, if any.
func (c *UserCache) Invalidate(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
}

// InvalidateAll drops every entry.
func (c *UserCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int64]cacheEntry)
}

// Len returns the number of entries currently held, expired or not.
func (c *UserCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
