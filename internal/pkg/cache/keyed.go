package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Keyed is an in-process cache of values of a single type.
type Keyed[T any] struct {
	// sf coalesces concurrent loads of the same key
	sf singleflight.Group

	name string
	c    *cache.Cache
}

func NewKeyed[T any](name string, ttl time.Duration) *Keyed[T] {
	return &Keyed[T]{
		name: name,
		c:    cache.New(ttl, ttl*2),
	}
}

func (c *Keyed[T]) Get(key string) (T, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func (c *Keyed[T]) Set(key string, value T) {
	c.c.SetDefault(key, value)
}

// GetSet returns the cached value of key, or loads it with valueFunc. Concurrent
// misses of one key share a single load; misses of different keys do not wait
// on each other.
func (c *Keyed[T]) GetSet(key string, valueFunc func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := valueFunc()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("cache", c.name).
			Str("key", key).
			Msg("failed to get value from valueFunc() in GetSet")
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Keyed[T]) Flush() {
	c.c.Flush()
	log.Debug().
		Str("evt.name", "cache.flush").
		Str("cache", c.name).
		Msg("cache flushed")
}
