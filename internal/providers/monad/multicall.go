package monad

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/metrics"
)

// BurnInfos resolves burn records for a set of tokens through multicall.
// Batches run concurrently on the client's worker pool.
func (c *client) BurnInfos(ctx context.Context, tokenIDs []domain.TokenID) (map[domain.TokenID]domain.BurnRecord, error) {
	ids := dedupeTokenIDs(tokenIDs)
	records := make(map[domain.TokenID]domain.BurnRecord, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	batches := chunkTokenIDs(ids, c.config.MulticallBatchSize)
	logger.DebugCtx(ctx, "Resolving burn infos",
		zap.Int("tokens", len(ids)),
		zap.Int("batches", len(batches)))

	var mu sync.Mutex
	group := c.pool.NewGroup()
	for _, batch := range batches {
		group.SubmitErr(func() error {
			result, err := c.burnInfoBatch(ctx, batch)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for id, record := range result {
				records[id] = record
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to resolve burn infos: %w", err)
	}

	return records, nil
}

// burnInfoBatch issues a single aggregate3 call for a batch of tokens
func (c *client) burnInfoBatch(ctx context.Context, ids []domain.TokenID) (map[domain.TokenID]domain.BurnRecord, error) {
	calls := make([]call3, 0, len(ids))
	for _, id := range ids {
		n, ok := id.BigInt()
		if !ok {
			return nil, fmt.Errorf("invalid token id: %s", id)
		}
		data, err := readerABI.Pack(methodGetBurnInfo, n)
		if err != nil {
			return nil, fmt.Errorf("failed to pack %s for token %s: %w", methodGetBurnInfo, id, err)
		}
		calls = append(calls, call3{Target: c.reader, AllowFailure: true, CallData: data})
	}

	data, err := multicall3ABI.Pack(methodAggregate3, calls)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", methodAggregate3, err)
	}

	raw, err := c.call(ctx, c.multicall, data)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", methodAggregate3, err)
	}
	metrics.MulticallBatches.Inc()

	results, err := decodeAggregate3(raw)
	if err != nil {
		return nil, err
	}
	if len(results) != len(ids) {
		return nil, fmt.Errorf("%s returned %d results for %d calls", methodAggregate3, len(results), len(ids))
	}

	records := make(map[domain.TokenID]domain.BurnRecord, len(ids))
	for i, res := range results {
		if !res.Success || len(res.ReturnData) == 0 {
			continue
		}

		record, err := decodeBurnInfo(ids[i], res.ReturnData)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable burn info",
				zap.String("tokenID", ids[i].String()),
				zap.Error(err))
			continue
		}
		if domain.SameAddress(record.Owner, domain.ZERO_ADDRESS) {
			continue
		}
		records[ids[i]] = *record
	}

	return records, nil
}

// decodeAggregate3 unpacks the (bool success, bytes returnData)[] output
func decodeAggregate3(data []byte) ([]call3Result, error) {
	out, err := multicall3ABI.Unpack(methodAggregate3, data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", methodAggregate3, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected %s output length: %d", methodAggregate3, len(out))
	}

	results, ok := abi.ConvertType(out[0], new([]call3Result)).(*[]call3Result)
	if !ok {
		return nil, fmt.Errorf("unexpected %s output type: %T", methodAggregate3, out[0])
	}

	return *results, nil
}

// dedupeTokenIDs removes duplicates while keeping first-seen order
func dedupeTokenIDs(ids []domain.TokenID) []domain.TokenID {
	seen := make(map[domain.TokenID]struct{}, len(ids))
	out := make([]domain.TokenID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunkTokenIDs(ids []domain.TokenID, size int) [][]domain.TokenID {
	if size <= 0 {
		size = len(ids)
	}
	chunks := make([][]domain.TokenID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
