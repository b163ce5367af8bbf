package schema

import (
	"time"

	"gorm.io/datatypes"
)

// OwnerBurnEvent represents the owner_burn_events table - BurnScheduled logs collected per owner
type OwnerBurnEvent struct {
	// Owner is the lowercase owner address from the indexed topic
	Owner string `gorm:"column:owner;primaryKey;type:text"`
	// TxHash is the transaction hash that emitted the log
	TxHash string `gorm:"column:tx_hash;primaryKey;type:text"`
	// LogIndex is the position of the log in its block
	LogIndex uint `gorm:"column:log_index;primaryKey;type:integer"`
	// TokenID is the burned token id (stored as numeric to support up to 78 digits)
	TokenID string `gorm:"column:token_id;not null;type:numeric(78,0)"`
	// BlockNumber is the block number where the log was emitted
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// Amount is the scheduled reward amount
	Amount string `gorm:"column:amount;not null;type:numeric(78,0)"`
	// ClaimAvailableTime is the unix time the reward becomes claimable
	ClaimAvailableTime int64 `gorm:"column:claim_available_time;not null;type:bigint"`
	// WaitMinutes is the chosen wait period
	WaitMinutes uint8 `gorm:"column:wait_minutes;not null;type:smallint"`
	// Raw contains the decoded event as JSON
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the OwnerBurnEvent model
func (OwnerBurnEvent) TableName() string {
	return "owner_burn_events"
}
