package domain

import "errors"

var (
	// ErrInvalidAddress is returned when an address is not a 0x-prefixed 20-byte hex string
	ErrInvalidAddress = errors.New("invalid address")

	// ErrRangeTooLarge is returned when the RPC rejects even a single-block log query
	ErrRangeTooLarge = errors.New("log query range too large")

	// ErrNoBurnRecord is returned when a token has no burn record on the reader contract
	ErrNoBurnRecord = errors.New("no burn record")
)
