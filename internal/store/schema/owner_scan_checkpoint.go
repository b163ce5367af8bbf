package schema

import "time"

// OwnerScanCheckpoint represents the owner_scan_checkpoints table.
// It records the last block scanned for BurnScheduled events per owner.
type OwnerScanCheckpoint struct {
	// Owner is the lowercase owner address
	Owner string `gorm:"column:owner;primaryKey;type:text"`
	// LastBlock is the last block number included in a completed scan
	LastBlock uint64 `gorm:"column:last_block;not null;type:bigint"`
	// UpdatedAt is the timestamp of the latest scan
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
	// CreatedAt is the timestamp of the first scan
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the OwnerScanCheckpoint model
func (OwnerScanCheckpoint) TableName() string {
	return "owner_scan_checkpoints"
}
