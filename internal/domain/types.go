package domain

import (
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TokenID is the canonical decimal representation of an NFT token id
type TokenID string

// NewTokenID creates a TokenID from a big integer
func NewTokenID(n *big.Int) TokenID {
	if n == nil {
		return TokenID("0")
	}
	return TokenID(n.String())
}

// BigInt returns the numeric value of the token id
func (t TokenID) BigInt() (*big.Int, bool) {
	return new(big.Int).SetString(string(t), 10)
}

// String returns the string representation of the TokenID
func (t TokenID) String() string {
	return string(t)
}

// Less compares two token ids numerically.
// Both values are expected to be canonical decimals without leading zeros.
func (t TokenID) Less(other TokenID) bool {
	if len(t) != len(other) {
		return len(t) < len(other)
	}
	return t < other
}

// SortTokenIDs sorts token ids in ascending numeric order
func SortTokenIDs(ids []TokenID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

// NormalizeAddress validates an EVM address and returns its lowercase form
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) || !strings.HasPrefix(strings.ToLower(address), "0x") {
		return "", ErrInvalidAddress
	}
	return strings.ToLower(address), nil
}

// SameAddress reports whether two hex addresses refer to the same account
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// GraveWindow is a single page returned by the reader's viewGraveWindow view
type GraveWindow struct {
	TokenIDs   []TokenID
	NextCursor *big.Int
	Total      *big.Int
}

// BurnRecord is the on-chain burn state of a single token
type BurnRecord struct {
	TokenID            TokenID
	Owner              string
	TotalAmount        *big.Int
	ClaimAmount        *big.Int
	ClaimAvailableTime int64 // unix seconds, 0 when unknown
	GraveReleaseTime   int64 // unix seconds, 0 when unknown
	Claimed            bool
	WaitMinutes        uint8
}

// BurnScheduledEvent is a decoded BurnScheduled log
type BurnScheduledEvent struct {
	Owner              string   `json:"owner"`
	TokenID            TokenID  `json:"token_id"`
	Amount             *big.Int `json:"amount"`
	ClaimAvailableTime int64    `json:"claim_available_time"`
	WaitMinutes        uint8    `json:"wait_minutes"`
	BlockNumber        uint64   `json:"block_number"`
	TxHash             string   `json:"tx_hash"`
	LogIndex           uint     `json:"log_index"`
}

// ScanResult describes how a block range was scanned
type ScanResult struct {
	FromBlock uint64 `json:"from_block"`
	ToBlock   uint64 `json:"to_block"`
	Chunks    int    `json:"chunks"`
	Shrinks   int    `json:"shrinks"`
}

// ClaimStatus is the claim state bucket of a burned token
type ClaimStatus string

const (
	ClaimStatusClaimable ClaimStatus = "claimable"
	ClaimStatusPending   ClaimStatus = "pending"
	ClaimStatusClaimed   ClaimStatus = "claimed"
)

// ClaimEntry is a classified burn record
type ClaimEntry struct {
	TokenID            TokenID     `json:"token_id"`
	Status             ClaimStatus `json:"status"`
	TotalAmount        string      `json:"total_amount"`
	ClaimAmount        string      `json:"claim_amount"`
	ClaimAvailableTime int64       `json:"claim_available_time"`
	SecondsRemaining   int64       `json:"seconds_remaining"`
	WaitMinutes        uint8       `json:"wait_minutes"`
	BlockNumber        uint64      `json:"block_number,omitempty"`
	TxHash             string      `json:"tx_hash,omitempty"`
}

// ClaimableReport is the classified view of an owner's burned tokens
type ClaimableReport struct {
	Address        string       `json:"address"`
	Claimable      []ClaimEntry `json:"claimable"`
	Pending        []ClaimEntry `json:"pending"`
	Claimed        []ClaimEntry `json:"claimed"`
	TotalClaimable string       `json:"total_claimable"`
	TotalPending   string       `json:"total_pending"`
	Scan           *ScanResult  `json:"scan,omitempty"`
	GeneratedAt    time.Time    `json:"generated_at"`
	Cached         bool         `json:"cached"`
}

// GraveEntry is a graveyard token with its release countdown
type GraveEntry struct {
	TokenID          TokenID `json:"token_id"`
	GraveReleaseTime int64   `json:"grave_release_time"`
	SecondsRemaining int64   `json:"seconds_remaining"`
}

// GraveyardReport lists graveyard tokens split by breeding readiness
type GraveyardReport struct {
	Ready       []TokenID    `json:"ready"`
	Cooling     []GraveEntry `json:"cooling"`
	Unknown     []TokenID    `json:"unknown"`
	Total       int          `json:"total"`
	GeneratedAt time.Time    `json:"generated_at"`
	Cached      bool         `json:"cached"`
}
