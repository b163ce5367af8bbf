package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/ratelimit"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func newProxy(t *testing.T, cfg ratelimit.Config) ratelimit.Proxy {
	t.Helper()
	p, err := ratelimit.NewProxy(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestNewProxy_InvalidConfig(t *testing.T) {
	_, err := ratelimit.NewProxy(ratelimit.Config{RequestsPerSecond: 0})
	assert.Error(t, err)
}

func TestRequest_ReturnsTypedResult(t *testing.T) {
	p := newProxy(t, ratelimit.Config{RequestsPerSecond: 100, Burst: 10})

	got, err := ratelimit.Request(context.Background(), p, "eth_call", func(ctx context.Context) (uint64, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)
}

func TestRequest_PropagatesError(t *testing.T) {
	p := newProxy(t, ratelimit.Config{RequestsPerSecond: 100, Burst: 10})
	rpcErr := errors.New("execution reverted")

	_, err := ratelimit.Request(context.Background(), p, "eth_call", func(ctx context.Context) ([]byte, error) {
		return nil, rpcErr
	})

	assert.ErrorIs(t, err, rpcErr)
}

func TestRequest_NilProxyCallsDirectly(t *testing.T) {
	got, err := ratelimit.Request(context.Background(), nil, "eth_chainId", func(ctx context.Context) (string, error) {
		return "0x279f", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "0x279f", got)
}

func TestRequest_CapsConcurrency(t *testing.T) {
	p := newProxy(t, ratelimit.Config{RequestsPerSecond: 1000, Burst: 1000, MaxConcurrency: 2})

	var inFlight, peak atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Request(context.Background(), "eth_getLogs", func(ctx context.Context) (interface{}, error) {
				n := inFlight.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return nil, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRequest_CanceledContext(t *testing.T) {
	// One token, refilled every 10s: the second request has to wait
	p := newProxy(t, ratelimit.Config{RequestsPerSecond: 0.1, Burst: 1})

	_, err := p.Request(context.Background(), "eth_call", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	_, err = p.Request(ctx, "eth_call", func(ctx context.Context) (interface{}, error) {
		called = true
		return nil, nil
	})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestRequest_CanceledWhileQueued(t *testing.T) {
	p := newProxy(t, ratelimit.Config{RequestsPerSecond: 1000, MaxConcurrency: 1})

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Request(context.Background(), "eth_call", func(ctx context.Context) (interface{}, error) {
			close(started)
			<-release
			return nil, nil
		})
	}()
	<-started
	defer func() {
		close(release)
		<-done
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var called atomic.Bool
	start := time.Now()
	_, err := p.Request(ctx, "eth_call", func(ctx context.Context) (interface{}, error) {
		called.Store(true)
		return nil, nil
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.False(t, called.Load())
}

func TestRequest_AfterClose(t *testing.T) {
	p, err := ratelimit.NewProxy(ratelimit.Config{RequestsPerSecond: 10})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = p.Request(context.Background(), "eth_call", func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ratelimit.ErrProxyClosed)
}
