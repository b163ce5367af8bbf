package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/metrics"
)

// Config holds the cache configuration
type Config struct {
	// Namespace labels the cache in metrics and logs
	Namespace string

	// TTL is how long a loaded value is served
	TTL time.Duration

	// MaxEntries bounds the number of keys; the least recently used key is evicted
	MaxEntries int
}

// LoadFunc builds the value for a key on a cache miss
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Cache is a short-TTL LRU cache that coalesces concurrent loads of the same key.
// Failed loads are never stored.
type Cache[V any] struct {
	namespace string
	lru       *expirable.LRU[string, V]
	group     singleflight.Group

	// mu orders stores of loaded values against Purge
	mu         sync.Mutex
	generation uint64
}

// New creates a new cache
func New[V any](cfg Config) *Cache[V] {
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}

	return &Cache[V]{
		namespace: cfg.Namespace,
		lru:       expirable.NewLRU[string, V](cfg.MaxEntries, nil, cfg.TTL),
	}
}

// Get returns the value stored for key, if any
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// GetOrLoad returns the cached value for key or runs load to produce it.
// With fresh set the cached value is ignored but the loaded one is still stored.
// The returned bool reports whether the value came from the cache.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, fresh bool, load LoadFunc[V]) (V, bool, error) {
	var zero V

	if !fresh {
		if value, ok := c.lru.Get(key); ok {
			metrics.CacheLookups.WithLabelValues(c.namespace, "hit").Inc()
			return value, true, nil
		}
		metrics.CacheLookups.WithLabelValues(c.namespace, "miss").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues(c.namespace, "bypass").Inc()
	}

	gen := c.currentGeneration()

	// Loads started before a purge, or before a fresh request, are not joined
	flightKey := strconv.FormatUint(gen, 10) + ":" + key
	if fresh {
		flightKey += "#fresh"
	}

	// The shared load must outlive any single waiter's cancellation
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.store(gen, key, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		if res.Shared {
			logger.DebugCtx(ctx, "Coalesced cache load",
				zap.String("namespace", c.namespace),
				zap.String("key", key))
		}
		value, ok := res.Val.(V)
		if !ok {
			return zero, false, errors.New("cache: unexpected value type")
		}
		return value, false, nil
	}
}

// Remove drops a single key
func (c *Cache[V]) Remove(key string) {
	c.lru.Remove(key)
}

// Purge drops every key and returns how many were removed.
// Loads still in flight complete for their waiters but are not stored.
func (c *Cache[V]) Purge() int {
	c.mu.Lock()
	c.generation++
	n := c.lru.Len()
	c.lru.Purge()
	c.mu.Unlock()

	logger.Info("Cache purged", zap.String("namespace", c.namespace), zap.Int("entries", n))
	return n
}

// Len returns the number of live keys
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

func (c *Cache[V]) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// store adds value unless the cache was purged after the load began
func (c *Cache[V]) store(gen uint64, key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		logger.Debug("Dropping value loaded before purge",
			zap.String("namespace", c.namespace),
			zap.String("key", key))
		return
	}
	c.lru.Add(key, value)
}
