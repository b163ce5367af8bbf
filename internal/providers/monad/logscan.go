package monad

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/metrics"
	"github.com/crazycube/graveyard-api/internal/ratelimit"
)

// rangeTooLargeMessages are error fragments RPC nodes return when a log query spans too much
var rangeTooLargeMessages = []string{
	"block range",
	"range too large",
	"too many results",
	"query returned more than",
	"exceeded maximum",
	"limit exceeded",
	"response size exceeded",
}

// BurnScheduledEvents collects BurnScheduled logs for owner in [fromBlock, toBlock]
func (c *client) BurnScheduledEvents(ctx context.Context, owner string, fromBlock, toBlock uint64) ([]domain.BurnScheduledEvent, domain.ScanResult, error) {
	owner, err := domain.NormalizeAddress(owner)
	if err != nil {
		return nil, domain.ScanResult{}, err
	}

	if toBlock == 0 {
		head, err := c.heads.LatestHead(ctx)
		if err != nil {
			return nil, domain.ScanResult{}, fmt.Errorf("failed to resolve latest block: %w", err)
		}
		toBlock = head.Number
	}

	result := domain.ScanResult{FromBlock: fromBlock, ToBlock: toBlock}
	if fromBlock > toBlock {
		return []domain.BurnScheduledEvent{}, result, nil
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{c.game},
		Topics: [][]common.Hash{
			{burnScheduledEventSignature},
			{common.BytesToHash(common.HexToAddress(owner).Bytes())},
		},
	}

	logs, err := c.filterLogsChunked(ctx, query, fromBlock, toBlock, &result)
	if err != nil {
		return nil, result, err
	}

	events := make([]domain.BurnScheduledEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		event, err := decodeBurnScheduled(l)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable BurnScheduled log",
				zap.String("txHash", l.TxHash.Hex()),
				zap.Uint("logIndex", l.Index),
				zap.Error(err))
			continue
		}
		events = append(events, *event)
	}

	logger.DebugCtx(ctx, "Scanned BurnScheduled events",
		zap.String("owner", owner),
		zap.Uint64("fromBlock", fromBlock),
		zap.Uint64("toBlock", toBlock),
		zap.Int("chunks", result.Chunks),
		zap.Int("shrinks", result.Shrinks),
		zap.Int("events", len(events)))

	return events, result, nil
}

// filterLogsChunked walks [from, to] in chunks of the configured size.
// A range error halves the chunk and retries the same start block; the
// reduced size is kept for the rest of the scan.
func (c *client) filterLogsChunked(ctx context.Context, query ethereum.FilterQuery, from, to uint64, result *domain.ScanResult) ([]types.Log, error) {
	stepSize := c.config.ChunkSize
	currentFrom := from

	var allLogs []types.Log
	for currentFrom <= to {
		currentTo := currentFrom + stepSize - 1
		if currentTo > to || currentTo < currentFrom {
			currentTo = to
		}

		chunkQuery := query
		chunkQuery.FromBlock = new(big.Int).SetUint64(currentFrom)
		chunkQuery.ToBlock = new(big.Int).SetUint64(currentTo)

		logs, err := retry(ctx, c.config, "eth_getLogs", func(ctx context.Context) ([]types.Log, error) {
			return ratelimit.Request(ctx, c.proxy, "eth_getLogs", func(ctx context.Context) ([]types.Log, error) {
				callCtx, cancel := c.withCallTimeout(ctx)
				defer cancel()
				return c.eth.FilterLogs(callCtx, chunkQuery)
			})
		})
		if err == nil {
			allLogs = append(allLogs, logs...)
			result.Chunks++
			if currentTo == to {
				break
			}
			currentFrom = currentTo + 1
			continue
		}

		if !isRangeTooLargeError(err) {
			return nil, fmt.Errorf("failed to get logs for range %d-%d: %w", currentFrom, currentTo, err)
		}

		if stepSize <= 1 {
			return nil, fmt.Errorf("%w: block %d: %v", domain.ErrRangeTooLarge, currentFrom, err)
		}

		newStepSize := stepSize / 2
		result.Shrinks++
		metrics.LogRangeShrinks.Inc()
		logger.WarnCtx(ctx, "Log range too large, reducing step size",
			zap.Uint64("oldStepSize", stepSize),
			zap.Uint64("newStepSize", newStepSize),
			zap.Uint64("fromBlock", currentFrom),
			zap.Uint64("toBlock", currentTo))
		stepSize = newStepSize
	}

	return allLogs, nil
}

// decodeBurnScheduled decodes a BurnScheduled log
func decodeBurnScheduled(l types.Log) (*domain.BurnScheduledEvent, error) {
	if len(l.Topics) != 3 || l.Topics[0] != burnScheduledEventSignature {
		return nil, fmt.Errorf("unexpected topics for %s", eventBurnScheduled)
	}

	out, err := gameABI.Unpack(eventBurnScheduled, l.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s data: %w", eventBurnScheduled, err)
	}
	if len(out) != 3 {
		return nil, fmt.Errorf("unexpected %s data length: %d", eventBurnScheduled, len(out))
	}

	amount, ok1 := out[0].(*big.Int)
	claimAvailableTime, ok2 := out[1].(*big.Int)
	waitMinutes, ok3 := out[2].(uint8)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("unexpected %s data types", eventBurnScheduled)
	}

	return &domain.BurnScheduledEvent{
		Owner:              strings.ToLower(common.BytesToAddress(l.Topics[1].Bytes()).Hex()),
		TokenID:            domain.NewTokenID(l.Topics[2].Big()),
		Amount:             amount,
		ClaimAvailableTime: clampUnix(claimAvailableTime),
		WaitMinutes:        waitMinutes,
		BlockNumber:        l.BlockNumber,
		TxHash:             l.TxHash.Hex(),
		LogIndex:           l.Index,
	}, nil
}

// isRangeTooLargeError checks if the node rejected a log query for its size
func isRangeTooLargeError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, msg := range rangeTooLargeMessages {
		if strings.Contains(errStr, msg) {
			return true
		}
	}
	return false
}

// isRevertError checks if an eth_call reverted
func isRevertError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "execution reverted") ||
		strings.Contains(errStr, "invalid opcode")
}
