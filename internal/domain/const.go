package domain

const (
	// Blockchain constants
	ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Monad testnet
	CHAIN_ID_MONAD_TESTNET = 10143

	// Multicall3 is deployed at the same address on every EVM chain that ships it
	DEFAULT_MULTICALL3_ADDRESS = "0xcA11bde05977b3631167028862bE2a173976CA11"
)
