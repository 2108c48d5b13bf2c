// Package memo provides the per-instance result caches used by the protocols.
package memo

import (
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// Cache maps canonical keys to computed values. Concurrent callers asking
// for the same key share one computation; different keys compute in
// parallel.
type Cache[V any] struct {
	entries *lru.Cache
	flights singleflight.Group
}

type result[V any] struct {
	v   V
	hit bool
}

// New returns a cache holding at most size entries.
func New[V any](size int) (*Cache[V], error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{entries: entries}, nil
}

// GetOrCompute returns the cached value for key, calling compute on a miss.
// Errors are returned as-is and not cached.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, bool, error) {
	if v, ok := c.entries.Get(key); ok {
		return v.(V), true, nil
	}

	out, err, _ := c.flights.Do(key, func() (interface{}, error) {
		// A flight for key may have finished since the lookup above.
		if v, ok := c.entries.Get(key); ok {
			return result[V]{v: v.(V), hit: true}, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, v)
		return result[V]{v: v}, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	r := out.(result[V])
	return r.v, r.hit, nil
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}
