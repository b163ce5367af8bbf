package cache_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazycube/graveyard-api/internal/cache"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/metrics"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGetOrLoad_CachesValue(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_caches", TTL: time.Minute, MaxEntries: 10})

	var calls atomic.Int32
	load := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "report", nil
	}

	v, cached, err := c.GetOrLoad(context.Background(), "0xabc", false, load)
	require.NoError(t, err)
	assert.Equal(t, "report", v)
	assert.False(t, cached)

	v, cached, err = c.GetOrLoad(context.Background(), "0xabc", false, load)
	require.NoError(t, err)
	assert.Equal(t, "report", v)
	assert.True(t, cached)
	assert.Equal(t, int32(1), calls.Load())

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("test_caches", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("test_caches", "miss")))
}

func TestGetOrLoad_FreshBypassesRead(t *testing.T) {
	c := cache.New[int](cache.Config{Namespace: "test_fresh", TTL: time.Minute, MaxEntries: 10})

	var n atomic.Int32
	load := func(ctx context.Context) (int, error) {
		return int(n.Add(1)), nil
	}

	v, _, err := c.GetOrLoad(context.Background(), "k", false, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, cached, err := c.GetOrLoad(context.Background(), "k", true, load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.False(t, cached)

	// the fresh result replaced the stored one
	v, cached, err = c.GetOrLoad(context.Background(), "k", false, load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, cached)
}

func TestGetOrLoad_ErrorsAreNotCached(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_errors", TTL: time.Minute, MaxEntries: 10})

	_, _, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
		return "", errors.New("rpc down")
	})
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	v, cached, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.False(t, cached)
}

func TestGetOrLoad_CoalescesConcurrentLoads(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_coalesce", TTL: time.Minute, MaxEntries: 10})

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	results := make([]string, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.GetOrLoad(context.Background(), "same", false, load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// give the goroutines time to join the in-flight load
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestGetOrLoad_WaiterCancellation(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_cancel", TTL: time.Minute, MaxEntries: 10})

	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		v, _, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
			<-release
			return "late", ctx.Err()
		})
		assert.NoError(t, err)
		assert.Equal(t, "late", v)
	}()

	time.Sleep(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := c.GetOrLoad(ctx, "k", false, func(ctx context.Context) (string, error) {
		return "unused", nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	<-done

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "late", v)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_ttl", TTL: 20 * time.Millisecond, MaxEntries: 10})

	_, _, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
		return "v", nil
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := cache.New[int](cache.Config{Namespace: "test_lru", TTL: time.Minute, MaxEntries: 2})

	for i, key := range []string{"a", "b", "c"} {
		_, _, err := c.GetOrLoad(context.Background(), key, false, func(ctx context.Context) (int, error) {
			return i, nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCache_PurgeAndRemove(t *testing.T) {
	c := cache.New[int](cache.Config{Namespace: "test_purge", TTL: time.Minute, MaxEntries: 10})

	for _, key := range []string{"a", "b", "c"} {
		_, _, err := c.GetOrLoad(context.Background(), key, false, func(ctx context.Context) (int, error) {
			return 1, nil
		})
		require.NoError(t, err)
	}

	c.Remove("a")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Purge())
	assert.Equal(t, 0, c.Len())
}

func TestCache_PurgeDropsInFlightLoad(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_purge_inflight", TTL: time.Minute, MaxEntries: 10})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		v, _, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "pre-purge", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "pre-purge", v)
	}()
	<-started

	c.Purge()

	// a caller after the purge must not join the older load
	v, cached, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
		return "post-purge", nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "post-purge", v)

	close(release)
	<-done

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "post-purge", v)
}

func TestCache_PurgeWithOnlyInFlightLoad(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_purge_pending", TTL: time.Minute, MaxEntries: 10})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "pre-purge", nil
		})
		assert.NoError(t, err)
	}()
	<-started

	assert.Equal(t, 0, c.Purge())
	close(release)
	<-done

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestGetOrLoad_FreshDoesNotJoinPendingLoad(t *testing.T) {
	c := cache.New[string](cache.Config{Namespace: "test_fresh_join", TTL: time.Minute, MaxEntries: 10})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := c.GetOrLoad(context.Background(), "k", false, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		assert.NoError(t, err)
	}()
	<-started

	v, cached, err := c.GetOrLoad(context.Background(), "k", true, func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "fresh", v)

	close(release)
	<-done
}
