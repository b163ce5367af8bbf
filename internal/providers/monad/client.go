package monad

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/crazycube/graveyard-api/internal/adapter"
	"github.com/crazycube/graveyard-api/internal/block"
	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/ratelimit"
)

// Client reads the CrazyCube contracts on Monad
//
//go:generate mockgen -source=client.go -destination=../../mocks/monad_client.go -package=mocks -mock_names=Client=MockMonadClient
type Client interface {
	// GraveWindow fetches one page of the reader's graveyard window
	GraveWindow(ctx context.Context, cursor *big.Int, limit uint64) (*domain.GraveWindow, error)

	// BurnInfo fetches the burn record of a single token
	BurnInfo(ctx context.Context, tokenID domain.TokenID) (*domain.BurnRecord, error)

	// BurnInfos resolves burn records for a set of tokens through multicall.
	// Tokens without a burn record are absent from the result.
	BurnInfos(ctx context.Context, tokenIDs []domain.TokenID) (map[domain.TokenID]domain.BurnRecord, error)

	// BurnScheduledEvents collects BurnScheduled logs emitted for owner in [fromBlock, toBlock].
	// A toBlock of 0 scans up to the latest block.
	BurnScheduledEvents(ctx context.Context, owner string, fromBlock, toBlock uint64) ([]domain.BurnScheduledEvent, domain.ScanResult, error)

	// LatestHead returns the cached chain head
	LatestHead(ctx context.Context) (block.Head, error)

	// Close releases the worker pool
	Close()
}

// Config holds the contract addresses and tuning for the client
type Config struct {
	ReaderAddress        string
	GameAddress          string
	MulticallAddress     string
	ChunkSize            uint64
	MulticallBatchSize   int
	MulticallConcurrency int
	CallTimeout          time.Duration
	MaxRetryElapsed      time.Duration
	MaxRetries           uint64
	RetryInitialInterval time.Duration
}

type client struct {
	config    Config
	reader    common.Address
	game      common.Address
	multicall common.Address
	eth       adapter.EthClient
	proxy     ratelimit.Proxy
	heads     block.HeadProvider
	pool      pond.Pool
}

// NewClient creates a new client
func NewClient(cfg Config, eth adapter.EthClient, proxy ratelimit.Proxy, heads block.HeadProvider) Client {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 5000
	}
	if cfg.MulticallBatchSize <= 0 {
		cfg.MulticallBatchSize = 150
	}
	if cfg.MulticallConcurrency <= 0 {
		cfg.MulticallConcurrency = 4
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 4
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = 250 * time.Millisecond
	}
	if cfg.MulticallAddress == "" {
		cfg.MulticallAddress = domain.DEFAULT_MULTICALL3_ADDRESS
	}

	return &client{
		config:    cfg,
		reader:    common.HexToAddress(cfg.ReaderAddress),
		game:      common.HexToAddress(cfg.GameAddress),
		multicall: common.HexToAddress(cfg.MulticallAddress),
		eth:       eth,
		proxy:     proxy,
		heads:     heads,
		pool:      pond.NewPool(cfg.MulticallConcurrency),
	}
}

// GraveWindow fetches one page of the reader's graveyard window
func (c *client) GraveWindow(ctx context.Context, cursor *big.Int, limit uint64) (*domain.GraveWindow, error) {
	if cursor == nil {
		cursor = big.NewInt(0)
	}

	data, err := readerABI.Pack(methodViewGraveWindow, cursor, new(big.Int).SetUint64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.reader, data)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", methodViewGraveWindow, err)
	}

	return decodeGraveWindow(result)
}

// BurnInfo fetches the burn record of a single token
func (c *client) BurnInfo(ctx context.Context, tokenID domain.TokenID) (*domain.BurnRecord, error) {
	id, ok := tokenID.BigInt()
	if !ok {
		return nil, fmt.Errorf("invalid token id: %s", tokenID)
	}

	data, err := readerABI.Pack(methodGetBurnInfo, id)
	if err != nil {
		return nil, fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := c.call(ctx, c.reader, data)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", methodGetBurnInfo, err)
	}

	record, err := decodeBurnInfo(tokenID, result)
	if err != nil {
		return nil, err
	}
	if domain.SameAddress(record.Owner, domain.ZERO_ADDRESS) {
		return nil, domain.ErrNoBurnRecord
	}

	return record, nil
}

// LatestHead returns the cached chain head
func (c *client) LatestHead(ctx context.Context) (block.Head, error) {
	return c.heads.LatestHead(ctx)
}

// Close releases the worker pool
func (c *client) Close() {
	c.pool.StopAndWait()
}

// call performs a rate-limited, retried eth_call against the latest block
func (c *client) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}

	return retry(ctx, c.config, "eth_call", func(ctx context.Context) ([]byte, error) {
		return ratelimit.Request(ctx, c.proxy, "eth_call", func(ctx context.Context) ([]byte, error) {
			callCtx, cancel := c.withCallTimeout(ctx)
			defer cancel()
			return c.eth.CallContract(callCtx, msg, nil)
		})
	})
}

// retry runs op with exponential backoff. Errors classified as permanent
// (reverts, range errors, canceled contexts) are returned immediately.
func retry[T any](ctx context.Context, cfg Config, method string, op func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.RetryInitialInterval
	if cfg.MaxRetryElapsed > 0 {
		b.MaxElapsedTime = cfg.MaxRetryElapsed
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if isPermanentError(ctx, err) {
			var zero T
			return zero, backoff.Permanent(err)
		}
		logger.WarnCtx(ctx, "RPC request failed, retrying",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return result, err
	}

	return backoff.RetryWithData(operation, backoff.WithContext(backoff.WithMaxRetries(b, cfg.MaxRetries), ctx))
}

func (c *client) withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.CallTimeout)
}

// isPermanentError reports whether retrying err cannot succeed
func isPermanentError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ratelimit.ErrProxyClosed) {
		return true
	}
	if isRangeTooLargeError(err) {
		return true
	}
	return isRevertError(err)
}

// decodeGraveWindow unpacks viewGraveWindow output
func decodeGraveWindow(data []byte) (*domain.GraveWindow, error) {
	out, err := readerABI.Unpack(methodViewGraveWindow, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack result: %w", err)
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("unexpected %s output length: %d", methodViewGraveWindow, len(out))
	}

	ids, ok := out[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s ids type: %T", methodViewGraveWindow, out[0])
	}
	nextCursor, ok := out[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s cursor type: %T", methodViewGraveWindow, out[1])
	}
	total, ok := out[2].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected %s total type: %T", methodViewGraveWindow, out[2])
	}

	window := &domain.GraveWindow{
		TokenIDs:   make([]domain.TokenID, 0, len(ids)),
		NextCursor: nextCursor,
		Total:      total,
	}
	for _, id := range ids {
		window.TokenIDs = append(window.TokenIDs, domain.NewTokenID(id))
	}

	return window, nil
}

// decodeBurnInfo unpacks getBurnInfo output
func decodeBurnInfo(tokenID domain.TokenID, data []byte) (*domain.BurnRecord, error) {
	out, err := readerABI.Unpack(methodGetBurnInfo, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack burn info for token %s: %w", tokenID, err)
	}
	if len(out) != 7 {
		return nil, fmt.Errorf("unexpected %s output length: %d", methodGetBurnInfo, len(out))
	}

	owner, ok1 := out[0].(common.Address)
	totalAmount, ok2 := out[1].(*big.Int)
	claimAmount, ok3 := out[2].(*big.Int)
	claimAvailableTime, ok4 := out[3].(*big.Int)
	graveReleaseTime, ok5 := out[4].(*big.Int)
	claimed, ok6 := out[5].(bool)
	waitMinutes, ok7 := out[6].(uint8)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 {
		return nil, fmt.Errorf("unexpected %s output types for token %s", methodGetBurnInfo, tokenID)
	}

	return &domain.BurnRecord{
		TokenID:            tokenID,
		Owner:              owner.Hex(),
		TotalAmount:        totalAmount,
		ClaimAmount:        claimAmount,
		ClaimAvailableTime: clampUnix(claimAvailableTime),
		GraveReleaseTime:   clampUnix(graveReleaseTime),
		Claimed:            claimed,
		WaitMinutes:        waitMinutes,
	}, nil
}

// clampUnix converts an on-chain uint256 timestamp to unix seconds
func clampUnix(v *big.Int) int64 {
	if v == nil || v.Sign() <= 0 {
		return 0
	}
	if !v.IsInt64() {
		return 1<<63 - 1
	}
	return v.Int64()
}
