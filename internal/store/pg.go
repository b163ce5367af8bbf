package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/logger"
	"github.com/crazycube/graveyard-api/internal/store/schema"
)

// ownerBurnEventFields is the number of bound parameters per owner_burn_events row
const ownerBurnEventFields = 10

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// PoolConfig holds the connection pool settings
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open connects to PostgreSQL and configures the connection pool
func Open(dsn string, pool PoolConfig, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if debug {
		logLevel = gormlogger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := ConfigureConnectionPool(db, pool.MaxOpenConns, pool.MaxIdleConns, pool.ConnMaxLifetime, pool.ConnMaxIdleTime); err != nil {
		return nil, err
	}

	return db, nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero values fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 10
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 1 hour
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = time.Hour
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize returns how many rows fit into one INSERT without
// exceeding PostgreSQL's 65535 bound parameter limit
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	safeBatchSize := max((maxParams-totalHeadroom)/fieldsPerRecord, 1)
	if safeBatchSize > totalRecords {
		return max(totalRecords, 1)
	}
	return safeBatchSize
}

// GetCheckpoint returns the last scanned block for owner and whether one exists
func (s *pgStore) GetCheckpoint(ctx context.Context, owner string) (uint64, bool, error) {
	var checkpoint schema.OwnerScanCheckpoint
	err := s.db.WithContext(ctx).
		Where("owner = ?", strings.ToLower(owner)).
		First(&checkpoint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get scan checkpoint: %w", err)
	}

	return checkpoint.LastBlock, true, nil
}

// SaveScan stores events and advances the owner's checkpoint in a single transaction.
// Events already stored are skipped; the checkpoint never moves backwards.
func (s *pgStore) SaveScan(ctx context.Context, owner string, lastBlock uint64, events []domain.BurnScheduledEvent) error {
	owner = strings.ToLower(owner)

	rows := make([]schema.OwnerBurnEvent, 0, len(events))
	for _, e := range events {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal burn event: %w", err)
		}

		amount := "0"
		if e.Amount != nil {
			amount = e.Amount.String()
		}

		rows = append(rows, schema.OwnerBurnEvent{
			Owner:              owner,
			TxHash:             strings.ToLower(e.TxHash),
			LogIndex:           e.LogIndex,
			TokenID:            e.TokenID.String(),
			BlockNumber:        e.BlockNumber,
			Amount:             amount,
			ClaimAvailableTime: e.ClaimAvailableTime,
			WaitMinutes:        e.WaitMinutes,
			Raw:                raw,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			batchSize := calculateSafeBatchSize(len(rows), ownerBurnEventFields)
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "owner"}, {Name: "tx_hash"}, {Name: "log_index"}},
				DoNothing: true,
			}).CreateInBatches(&rows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert burn events: %w", err)
			}
		}

		checkpoint := schema.OwnerScanCheckpoint{
			Owner:     owner,
			LastBlock: lastBlock,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "owner"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_block": gorm.Expr("GREATEST(owner_scan_checkpoints.last_block, EXCLUDED.last_block)"),
				"updated_at": gorm.Expr("now()"),
			}),
		}).Create(&checkpoint).Error; err != nil {
			return fmt.Errorf("failed to upsert scan checkpoint: %w", err)
		}

		logger.DebugCtx(ctx, "Saved owner scan",
			zap.String("owner", owner),
			zap.Uint64("lastBlock", lastBlock),
			zap.Int("events", len(rows)))

		return nil
	})
}

// ListBurnEvents returns every stored event for owner ordered by block and log index
func (s *pgStore) ListBurnEvents(ctx context.Context, owner string) ([]domain.BurnScheduledEvent, error) {
	var rows []schema.OwnerBurnEvent
	err := s.db.WithContext(ctx).
		Where("owner = ?", strings.ToLower(owner)).
		Order("block_number ASC").
		Order("log_index ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list burn events: %w", err)
	}

	events := make([]domain.BurnScheduledEvent, 0, len(rows))
	for _, row := range rows {
		amount, ok := new(big.Int).SetString(row.Amount, 10)
		if !ok {
			return nil, fmt.Errorf("invalid stored amount %q for tx %s", row.Amount, row.TxHash)
		}

		events = append(events, domain.BurnScheduledEvent{
			Owner:              row.Owner,
			TokenID:            domain.TokenID(row.TokenID),
			Amount:             amount,
			ClaimAvailableTime: row.ClaimAvailableTime,
			WaitMinutes:        row.WaitMinutes,
			BlockNumber:        row.BlockNumber,
			TxHash:             row.TxHash,
			LogIndex:           row.LogIndex,
		})
	}

	return events, nil
}
