package monad

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/crazycube/graveyard-api/internal/adapter"
	"github.com/crazycube/graveyard-api/internal/block"
	"github.com/crazycube/graveyard-api/internal/ratelimit"
)

type headFetcher struct {
	eth   adapter.EthClient
	proxy ratelimit.Proxy
}

// NewHeadFetcher creates a block.HeadFetcher reading the latest header over RPC
func NewHeadFetcher(eth adapter.EthClient, proxy ratelimit.Proxy) block.HeadFetcher {
	return &headFetcher{eth: eth, proxy: proxy}
}

// FetchLatestHead fetches the latest block header from the chain
func (f *headFetcher) FetchLatestHead(ctx context.Context) (block.Head, error) {
	header, err := ratelimit.Request(ctx, f.proxy, "eth_getBlockByNumber", func(ctx context.Context) (*types.Header, error) {
		return f.eth.HeaderByNumber(ctx, nil)
	})
	if err != nil {
		return block.Head{}, fmt.Errorf("failed to get latest header: %w", err)
	}
	if header == nil || header.Number == nil {
		return block.Head{}, fmt.Errorf("node returned empty latest header")
	}

	return block.Head{
		Number: header.Number.Uint64(),
		Time:   time.Unix(int64(header.Time), 0).UTC(), //nolint:gosec,G115
	}, nil
}

// VerifyChainID checks that the node serves the expected chain
func VerifyChainID(ctx context.Context, eth adapter.EthClient, expected uint64) error {
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}
	if chainID.Cmp(new(big.Int).SetUint64(expected)) != 0 {
		return fmt.Errorf("unexpected chain id: got %s, want %d", chainID, expected)
	}
	return nil
}
