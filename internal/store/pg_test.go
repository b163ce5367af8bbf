package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/store/schema"
)

var testDB *gorm.DB

// TestMain connects to TEST_DATABASE_URL when set, otherwise to a throwaway
// PostgreSQL container, and loads db/init_pg_db.sql before running the tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	dsn, terminate, err := testDatabaseDSN(ctx)
	if err != nil {
		fmt.Printf("Failed to prepare test database: %v\n", err)
		os.Exit(1)
	}

	code, err := runWithDatabase(m, dsn)
	if err != nil {
		fmt.Printf("Failed to set up test database: %v\n", err)
		code = 1
	}

	terminate()
	os.Exit(code)
}

func testDatabaseDSN(ctx context.Context) (string, func(), error) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn, func() {}, nil
	}

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("graveyard_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate()
		return "", nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return dsn, terminate, nil
}

func runWithDatabase(m *testing.M, dsn string) (int, error) {
	db, err := Open(dsn, PoolConfig{MaxOpenConns: 4}, false)
	if err != nil {
		return 1, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 1, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	schemaSQL, err := os.ReadFile(filepath.Join("..", "..", "db", "init_pg_db.sql")) //nolint:gosec,G304
	if err != nil {
		return 1, fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := sqlDB.Exec(string(schemaSQL)); err != nil {
		return 1, fmt.Errorf("failed to execute schema: %w", err)
	}

	testDB = db
	return m.Run(), nil
}

// beginTestTx opens a transaction that is rolled back when the test ends
func beginTestTx(t *testing.T) *gorm.DB {
	t.Helper()
	tx := testDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func initPGTestDB(t *testing.T) Store {
	return NewPGStore(beginTestTx(t))
}

func TestPostgreSQLStore(t *testing.T) {
	require.NotNil(t, testDB, "test database not initialized")

	RunStoreTests(t, initPGTestDB)
}

func TestSchema_MatchesModels(t *testing.T) {
	migrator := testDB.Migrator()

	require.True(t, migrator.HasTable(&schema.OwnerScanCheckpoint{}))
	for _, column := range []string{"Owner", "LastBlock", "UpdatedAt", "CreatedAt"} {
		assert.True(t, migrator.HasColumn(&schema.OwnerScanCheckpoint{}, column), column)
	}

	require.True(t, migrator.HasTable(&schema.OwnerBurnEvent{}))
	for _, column := range []string{
		"Owner", "TxHash", "LogIndex", "TokenID", "BlockNumber",
		"Amount", "ClaimAvailableTime", "WaitMinutes", "Raw", "CreatedAt",
	} {
		assert.True(t, migrator.HasColumn(&schema.OwnerBurnEvent{}, column), column)
	}
	assert.True(t, migrator.HasIndex(&schema.OwnerBurnEvent{}, "idx_owner_burn_events_owner_block"))
}

func TestSaveScan_StoresRawEventJSON(t *testing.T) {
	ctx := context.Background()
	tx := beginTestTx(t)
	s := NewPGStore(tx)

	event := buildTestEvent(testOwner, "42", 900, 3)
	require.NoError(t, s.SaveScan(ctx, testOwner, 900, []domain.BurnScheduledEvent{event}))

	var raw struct {
		TokenID string
		TxHash  string
	}
	err := tx.Raw(`SELECT raw->>'token_id' AS token_id, raw->>'tx_hash' AS tx_hash
		FROM owner_burn_events WHERE owner = ?`, testOwner).Scan(&raw).Error
	require.NoError(t, err)
	assert.Equal(t, "42", raw.TokenID)
	assert.Equal(t, event.TxHash, raw.TxHash)
}

func TestSaveScan_SplitsLargeScansIntoBatches(t *testing.T) {
	ctx := context.Background()
	s := initPGTestDB(t)

	total := calculateSafeBatchSize(1<<20, ownerBurnEventFields) + 10
	events := make([]domain.BurnScheduledEvent, 0, total)
	for i := 0; i < total; i++ {
		events = append(events, buildTestEvent(testOwner, strconv.Itoa(i+1), uint64(i/100), uint(i%100)))
	}

	require.NoError(t, s.SaveScan(ctx, testOwner, uint64(total), events))

	stored, err := s.ListBurnEvents(ctx, testOwner)
	require.NoError(t, err)
	assert.Len(t, stored, total)

	lastBlock, ok, err := s.GetCheckpoint(ctx, testOwner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(total), lastBlock)
}
