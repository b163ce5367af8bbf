package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crazycube/graveyard-api/internal/adapter"
	"github.com/crazycube/graveyard-api/internal/logger"
)

// Head is the chain head as seen by the RPC node
type Head struct {
	Number uint64
	// Time is the block timestamp, which is what the game contract compares
	// claim and release times against
	Time time.Time
}

// cachedHead is a head together with the wall-clock time it was fetched
type cachedHead struct {
	head      Head
	fetchedAt time.Time
}

// HeadProvider provides cached access to the chain head.
// The log scanner and the classifiers hit it on every request, so the head is
// held for a short TTL instead of asking the RPC each time.
//
//go:generate mockgen -source=head.go -destination=../mocks/block_head_provider.go -package=mocks -mock_names=HeadProvider=MockHeadProvider,HeadFetcher=MockHeadFetcher
type HeadProvider interface {
	// LatestHead returns the latest head, potentially from cache
	LatestHead(ctx context.Context) (Head, error)
}

// HeadFetcher fetches the latest head from the chain
type HeadFetcher interface {
	// FetchLatestHead fetches the latest block header from the chain
	FetchLatestHead(ctx context.Context) (Head, error)
}

// Config holds configuration for the HeadProvider
type Config struct {
	// TTL is how long to cache the head
	TTL time.Duration

	// StaleWindow is how long to keep serving a cached head when fetching fails
	StaleWindow time.Duration
}

// headProvider implements HeadProvider with TTL-based caching
type headProvider struct {
	fetcher HeadFetcher
	config  Config
	clock   adapter.Clock

	mu     sync.RWMutex
	cached *cachedHead
}

// NewHeadProvider creates a new HeadProvider with caching
func NewHeadProvider(fetcher HeadFetcher, config Config, clock adapter.Clock) HeadProvider {
	return &headProvider{
		fetcher: fetcher,
		config:  config,
		clock:   clock,
	}
}

// LatestHead returns the latest head, using cache if valid
func (p *headProvider) LatestHead(ctx context.Context) (Head, error) {
	p.mu.RLock()
	cached := p.cached
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.fetchedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached chain head", zap.Uint64("block_number", cached.head.Number))
		return cached.head, nil
	}

	head, err := p.fetcher.FetchLatestHead(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.fetchedAt) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale chain head",
				zap.Uint64("block_number", cached.head.Number),
				zap.Error(err))
			return cached.head, nil
		}
		return Head{}, fmt.Errorf("failed to fetch latest head and no valid cache available: %w", err)
	}

	p.mu.Lock()
	// A concurrent caller may have stored a newer head meanwhile
	if p.cached == nil || head.Number >= p.cached.head.Number {
		p.cached = &cachedHead{head: head, fetchedAt: now}
	}
	p.mu.Unlock()

	return head, nil
}
