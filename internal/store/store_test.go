package store

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazycube/graveyard-api/internal/domain"
)

const (
	testOwner      = "0x00000000000000000000000000000000000000aa"
	testOtherOwner = "0x00000000000000000000000000000000000000bb"
)

// buildTestEvent creates a BurnScheduled event for owner
func buildTestEvent(owner string, tokenID string, blockNumber uint64, logIndex uint) domain.BurnScheduledEvent {
	return domain.BurnScheduledEvent{
		Owner:              owner,
		TokenID:            domain.TokenID(tokenID),
		Amount:             new(big.Int).Mul(big.NewInt(1_000_000_000_000_000_000), big.NewInt(25)),
		ClaimAvailableTime: 1700000000 + int64(blockNumber),
		WaitMinutes:        30,
		BlockNumber:        blockNumber,
		TxHash:             "0x" + tokenID + "abc",
		LogIndex:           logIndex,
	}
}

// RunStoreTests runs the store behaviour tests against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store) {
	t.Run("GetCheckpoint", func(t *testing.T) { testGetCheckpoint(t, initDB(t)) })
	t.Run("SaveScan", func(t *testing.T) { testSaveScan(t, initDB(t)) })
	t.Run("SaveScanIsIdempotent", func(t *testing.T) { testSaveScanIsIdempotent(t, initDB(t)) })
	t.Run("CheckpointNeverMovesBackwards", func(t *testing.T) { testCheckpointNeverMovesBackwards(t, initDB(t)) })
	t.Run("ListBurnEventsIsolatesOwners", func(t *testing.T) { testListBurnEventsIsolatesOwners(t, initDB(t)) })
}

func testGetCheckpoint(t *testing.T, s Store) {
	ctx := context.Background()

	lastBlock, ok, err := s.GetCheckpoint(ctx, testOwner)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), lastBlock)

	require.NoError(t, s.SaveScan(ctx, testOwner, 1500, nil))

	lastBlock, ok, err = s.GetCheckpoint(ctx, "0x00000000000000000000000000000000000000AA")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(1500), lastBlock)
}

func testSaveScan(t *testing.T, s Store) {
	ctx := context.Background()

	events := []domain.BurnScheduledEvent{
		buildTestEvent(testOwner, "12", 200, 1),
		buildTestEvent(testOwner, "7", 100, 3),
		buildTestEvent(testOwner, "9", 200, 0),
	}
	require.NoError(t, s.SaveScan(ctx, testOwner, 250, events))

	stored, err := s.ListBurnEvents(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	assert.Equal(t, domain.TokenID("7"), stored[0].TokenID)
	assert.Equal(t, domain.TokenID("9"), stored[1].TokenID)
	assert.Equal(t, domain.TokenID("12"), stored[2].TokenID)

	assert.Equal(t, events[1].Amount.String(), stored[0].Amount.String())
	assert.Equal(t, events[1].ClaimAvailableTime, stored[0].ClaimAvailableTime)
	assert.Equal(t, uint8(30), stored[0].WaitMinutes)
	assert.Equal(t, uint64(100), stored[0].BlockNumber)
	assert.Equal(t, uint(3), stored[0].LogIndex)
	assert.Equal(t, testOwner, stored[0].Owner)

	lastBlock, ok, err := s.GetCheckpoint(ctx, testOwner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(250), lastBlock)
}

func testSaveScanIsIdempotent(t *testing.T, s Store) {
	ctx := context.Background()

	event := buildTestEvent(testOwner, "5", 100, 0)
	require.NoError(t, s.SaveScan(ctx, testOwner, 150, []domain.BurnScheduledEvent{event}))
	require.NoError(t, s.SaveScan(ctx, testOwner, 300, []domain.BurnScheduledEvent{event, buildTestEvent(testOwner, "6", 280, 2)}))

	stored, err := s.ListBurnEvents(ctx, testOwner)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	lastBlock, _, err := s.GetCheckpoint(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), lastBlock)
}

func testCheckpointNeverMovesBackwards(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveScan(ctx, testOwner, 900, nil))
	require.NoError(t, s.SaveScan(ctx, testOwner, 400, nil))

	lastBlock, _, err := s.GetCheckpoint(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), lastBlock)
}

func testListBurnEventsIsolatesOwners(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveScan(ctx, testOwner, 100, []domain.BurnScheduledEvent{buildTestEvent(testOwner, "1", 10, 0)}))
	require.NoError(t, s.SaveScan(ctx, testOtherOwner, 100, []domain.BurnScheduledEvent{buildTestEvent(testOtherOwner, "2", 20, 0)}))

	stored, err := s.ListBurnEvents(ctx, testOtherOwner)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.TokenID("2"), stored[0].TokenID)

	none, err := s.ListBurnEvents(ctx, "0x00000000000000000000000000000000000000cc")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	maxOpen, maxIdle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 10, maxOpen)
	assert.Equal(t, 2, maxIdle)
	assert.Equal(t, float64(3600), lifetime.Seconds())
	assert.Equal(t, float64(600), idleTime.Seconds())

	maxOpen, maxIdle, _, _ = NormalizeConnectionPoolSettings(3, 8, 0, 0)
	assert.Equal(t, 3, maxOpen)
	assert.Equal(t, 3, maxIdle)
}

func TestCalculateSafeBatchSize(t *testing.T) {
	assert.Equal(t, 5, calculateSafeBatchSize(5, ownerBurnEventFields))
	assert.Equal(t, (65535-1000)/ownerBurnEventFields, calculateSafeBatchSize(100000, ownerBurnEventFields))
	assert.Equal(t, 1, calculateSafeBatchSize(0, ownerBurnEventFields))
}
