package cache

import (
	"sync"
	"time"
)

type Item[V any] struct {
	data      V
	expiredAt time.Time
}

type Cache[V any] struct {
	store map[string]Item[V]
	lock  *sync.RWMutex
	now   func() time.Time
}

func New[V any]() *Cache[V] {
	return NewWithClock[V](time.Now)
}

func NewWithClock[V any](now func() time.Time) *Cache[V] {
	return &Cache[V]{
		store: map[string]Item[V]{},
		lock:  &sync.RWMutex{},
		now:   now,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	item, ok := c.store[key]
	if !ok {
		var empty V
		return empty, false
	}

	if c.now().After(item.expiredAt) {
		var empty V
		return empty, false
	}

	return item.data, true
}

// Set stores data and returns the moment it expires.
func (c *Cache[V]) Set(key string, data V, lifeTime time.Duration) time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()

	expiredAt := c.now().Add(lifeTime)
	c.store[key] = Item[V]{
		data:      data,
		expiredAt: expiredAt,
	}
	return expiredAt
}

func (c *Cache[V]) Purge() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.store {
		if now.After(item.expiredAt) {
			delete(c.store, key)
			removed++
		}
	}
	return removed
}

func (c *Cache[V]) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.store)
}
