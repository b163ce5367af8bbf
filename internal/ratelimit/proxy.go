package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/metrics"
)

// ErrProxyClosed is returned for requests submitted after Close
var ErrProxyClosed = errors.New("rate limit proxy is closed")

// RequestFunc is a function that performs the actual RPC request
type RequestFunc func(ctx context.Context) (interface{}, error)

// requestResult wraps the result and error of a request
type requestResult struct {
	value interface{}
	err   error
}

// Proxy throttles outgoing RPC requests.
// Every call to the chain goes through it so that a burst of API requests
// cannot exceed the node's rate limit.
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request runs fn once a rate limit token and a worker slot are available
	Request(ctx context.Context, method string, fn RequestFunc) (interface{}, error)

	// Close gracefully shuts down the proxy
	Close() error
}

// Config holds the proxy configuration
type Config struct {
	RequestsPerSecond float64
	Burst             int
	MaxConcurrency    int
	MaxQueueSize      int
}

// proxy is the concrete implementation of the rate-limiting proxy
type proxy struct {
	pool      pond.ResultPool[*requestResult]
	limiter   *rate.Limiter
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewProxy creates a new rate-limiting proxy
func NewProxy(cfg Config) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	p := &proxy{
		pool: pond.NewResultPool[*requestResult](
			cfg.MaxConcurrency,
			pond.WithQueueSize(cfg.MaxQueueSize),
		),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}

	logger.Info("RPC rate limit proxy initialized",
		zap.Float64("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("burst", cfg.Burst),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Int("max_queue_size", cfg.MaxQueueSize),
	)

	return p, nil
}

// Request submits a rate-limited request and returns the result with type safety
func Request[T any](ctx context.Context, p Proxy, method string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, method, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// Request blocks until the request completes or ctx is canceled.
// A canceled caller returns at once even when its task is still queued.
func (p *proxy) Request(ctx context.Context, method string, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	task := p.pool.Submit(func() *requestResult {
		// The caller may have left while the task was queued
		if err := ctx.Err(); err != nil {
			return &requestResult{err: err}
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return &requestResult{err: err}
		}

		start := time.Now()
		value, err := fn(ctx)
		metrics.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		metrics.RPCRequests.WithLabelValues(method, metrics.Outcome(err)).Inc()

		return &requestResult{value: value, err: err}
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-task.Done():
	}

	result, err := task.Wait()
	if err != nil {
		return nil, err
	}
	if result.err != nil {
		return nil, result.err
	}
	return result.value, nil
}

// Close stops accepting requests and waits for in-flight ones
func (p *proxy) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)

		logger.Info("Shutting down RPC rate limit proxy")
		if waitErr := p.pool.Stop().Wait(); waitErr != nil {
			logger.Warn("Error waiting for pool tasks to complete", zap.Error(waitErr))
			err = waitErr
		}
	})
	return err
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *Config) error {
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(int(cfg.RequestsPerSecond), 1)
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 8
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 1024
	}
	return nil
}
