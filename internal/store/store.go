package store

import (
	"context"

	"github.com/crazycube/graveyard-api/internal/domain"
)

// Store persists per-owner ledger scans so repeated requests only scan new blocks
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetCheckpoint returns the last scanned block for owner and whether one exists
	GetCheckpoint(ctx context.Context, owner string) (uint64, bool, error)
	// SaveScan stores events and advances the owner's checkpoint in a single transaction
	SaveScan(ctx context.Context, owner string, lastBlock uint64, events []domain.BurnScheduledEvent) error
	// ListBurnEvents returns every stored event for owner ordered by block and log index
	ListBurnEvents(ctx context.Context, owner string) ([]domain.BurnScheduledEvent, error)
}
