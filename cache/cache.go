// Package cache wraps an expiring LRU for poll-cycle results. Cards are
// rebuilt per poll, so a short TTL bounds how stale a served batch can get
// while absorbing bursts of identical requests.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type TTLCache[K comparable, V any] struct {
	cache *expirable.LRU[K, V]
}

func NewTTL[K comparable, V any](maxSize int, ttl time.Duration) *TTLCache[K, V] {
	c := expirable.NewLRU[K, V](maxSize, nil, ttl)
	return &TTLCache[K, V]{cache: c}
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	return c.cache.Get(key)
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	c.cache.Add(key, value)
}

// GetOrFill returns the cached value for key, or computes, stores and
// returns a fresh one.
func (c *TTLCache[K, V]) GetOrFill(key K, fill func() V) V {
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v := fill()
	c.cache.Add(key, v)
	return v
}
