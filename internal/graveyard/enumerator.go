package graveyard

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/logger"
)

// WindowReader reads pages of the graveyard window
type WindowReader interface {
	GraveWindow(ctx context.Context, cursor *big.Int, limit uint64) (*domain.GraveWindow, error)
}

// EnumerateOptions bounds a graveyard enumeration
type EnumerateOptions struct {
	PageSize uint64
	MaxPages int
}

// EnumerateGraveyard pages through the reader's graveyard window from cursor 0 and
// returns every unique token id in first-seen order.
//
// It stops when the cursor wraps to zero, the unique count reaches the reported
// total or a page comes back empty. A cursor that repeats or a page count above
// MaxPages also stops the walk; the ids collected so far are returned.
func EnumerateGraveyard(ctx context.Context, reader WindowReader, opts EnumerateOptions) ([]domain.TokenID, error) {
	if opts.PageSize == 0 {
		opts.PageSize = 200
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 500
	}

	ids := make([]domain.TokenID, 0)
	seen := make(map[domain.TokenID]struct{})
	visited := make(map[string]struct{})
	cursor := big.NewInt(0)

	for page := 0; ; page++ {
		if page >= opts.MaxPages {
			logger.WarnCtx(ctx, "Graveyard enumeration hit the page limit",
				zap.Int("maxPages", opts.MaxPages),
				zap.Int("collected", len(ids)))
			return ids, nil
		}
		visited[cursor.String()] = struct{}{}

		window, err := reader.GraveWindow(ctx, cursor, opts.PageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read grave window at cursor %s: %w", cursor, err)
		}

		for _, id := range window.TokenIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		if len(window.TokenIDs) == 0 {
			return ids, nil
		}
		if window.Total != nil && big.NewInt(int64(len(ids))).Cmp(window.Total) >= 0 {
			return ids, nil
		}
		if window.NextCursor == nil || window.NextCursor.Sign() == 0 {
			return ids, nil
		}
		if _, ok := visited[window.NextCursor.String()]; ok {
			logger.WarnCtx(ctx, "Graveyard cursor did not advance",
				zap.String("cursor", cursor.String()),
				zap.String("nextCursor", window.NextCursor.String()),
				zap.Int("collected", len(ids)))
			return ids, nil
		}

		cursor = window.NextCursor
	}
}
