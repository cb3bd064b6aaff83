package caches

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache loads each key at most once, even when requested concurrently.
// Failed loads are not kept, so the next Get retries. It keeps at most size
// entries, dropping the least recently used, and with a positive ttl each
// entry is loaded again after ttl.
type Cache[K comparable, V any] struct {
	mutex sync.Mutex
	lru   *expirable.LRU[K, *Lazy[V]]
}

func NewCache[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		lru: expirable.NewLRU[K, *Lazy[V]](size, nil, ttl),
	}
}

func (c *Cache[K, V]) Get(key K, loader func(K) (V, error)) (V, error) {
	c.mutex.Lock()
	val, ok := c.lru.Get(key)
	if !ok {
		val = NewLazy[V](func() (V, error) { return loader(key) })
		c.lru.Add(key, val)
	}
	c.mutex.Unlock()

	result, err := val.Get()
	if err != nil {
		c.mutex.Lock()
		if current, ok := c.lru.Peek(key); ok && current == val {
			c.lru.Remove(key)
		}
		c.mutex.Unlock()
	}

	return result, err
}

func (c *Cache[K, V]) Evict(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.lru.Remove(key)
}

func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}
