package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crazycube/graveyard-api/internal/adapter"
	"github.com/crazycube/graveyard-api/internal/block"
	"github.com/crazycube/graveyard-api/internal/config"
	"github.com/crazycube/graveyard-api/internal/graveyard"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/providers/monad"
	"github.com/crazycube/graveyard-api/internal/ratelimit"
	"github.com/crazycube/graveyard-api/internal/store"
)

// Runtime holds the aggregation service and everything it owns
type Runtime struct {
	Service graveyard.Service

	closers []func()
}

// Options overrides the dependencies Build would otherwise create
type Options struct {
	Dialer adapter.EthClientDialer
	Clock  adapter.Clock
	// Store replaces the PostgreSQL store opened from the database config
	Store store.Store
}

// Build dials the RPC node, verifies its chain id and wires the aggregation service.
// The caller must Close the runtime.
func Build(ctx context.Context, cfg *config.GraveyardConfig, opts Options) (*Runtime, error) {
	if opts.Dialer == nil {
		opts.Dialer = adapter.NewEthClientDialer()
	}
	if opts.Clock == nil {
		opts.Clock = adapter.NewClock()
	}

	r := &Runtime{}

	eth, err := opts.Dialer.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC: %w", err)
	}
	r.closers = append(r.closers, eth.Close)

	if err := monad.VerifyChainID(ctx, eth, cfg.Chain.ChainID); err != nil {
		r.Close()
		return nil, err
	}
	logger.InfoCtx(ctx, "Connected to RPC node", zap.Uint64("chain_id", cfg.Chain.ChainID))

	proxy, err := ratelimit.NewProxy(ratelimit.Config{
		RequestsPerSecond: cfg.RPC.RequestsPerSecond,
		Burst:             cfg.RPC.Burst,
		MaxConcurrency:    cfg.RPC.MaxConcurrency,
		MaxQueueSize:      cfg.RPC.MaxQueueSize,
	})
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("failed to create rate limit proxy: %w", err)
	}
	r.closers = append(r.closers, func() {
		if err := proxy.Close(); err != nil {
			logger.Warn("Failed to close rate limit proxy", zap.Error(err))
		}
	})

	heads := block.NewHeadProvider(monad.NewHeadFetcher(eth, proxy), block.Config{
		TTL:         cfg.Chain.BlockHeadTTL,
		StaleWindow: cfg.Chain.BlockHeadStaleWindow,
	}, opts.Clock)

	client := monad.NewClient(monad.Config{
		ReaderAddress:        cfg.Contracts.Reader,
		GameAddress:          cfg.Contracts.Game,
		MulticallAddress:     cfg.Contracts.Multicall,
		ChunkSize:            cfg.Scan.ChunkSize,
		MulticallBatchSize:   cfg.Scan.MulticallBatchSize,
		MulticallConcurrency: cfg.Scan.MulticallConcurrency,
		CallTimeout:          cfg.RPC.CallTimeout,
		MaxRetryElapsed:      cfg.RPC.MaxRetryElapsed,
	}, eth, proxy, heads)
	r.closers = append(r.closers, client.Close)

	st := opts.Store
	if st == nil && cfg.DatabaseEnabled() {
		db, err := store.Open(cfg.Database.DSN(), store.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		}, cfg.Debug)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.closers = append(r.closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
		st = store.NewPGStore(db)
		logger.InfoCtx(ctx, "Scan checkpoint store enabled",
			zap.String("host", cfg.Database.Host),
			zap.String("dbname", cfg.Database.DBName),
		)
	} else if st == nil {
		logger.WarnCtx(ctx, "Database not configured, ledger scans start from the configured start block on every request",
			zap.Uint64("start_block", cfg.Chain.StartBlock),
		)
	}

	r.Service = graveyard.NewService(graveyard.Config{
		StartBlock:      cfg.Chain.StartBlock,
		WindowPageSize:  cfg.Scan.WindowPageSize,
		MaxPages:        cfg.Scan.MaxPages,
		CacheTTL:        cfg.Cache.TTL,
		CacheMaxEntries: cfg.Cache.MaxEntries,
	}, client, st, opts.Clock)

	return r, nil
}

// Close releases resources in reverse order of creation
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}
