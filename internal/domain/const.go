package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"
	TRON_ZERO_ADDRESS     = "T9yD14Nj9j7xAB4dbGeiX9h8unkKHxuWwb"

	// Provider query-range ceiling and the window used when it is exceeded
	DEFAULT_MAX_BLOCK_RANGE = 5000
	DEFAULT_WINDOW_SIZE     = 4990

	// IPFS URI prefixes accepted when resolving a token's ipfs hash
	IPFS_SCHEME       = "ipfs://"
	IPFS_GATEWAY_PATH = "/ipfs/"
)

// ZeroAddress returns the null-address literal of a chain family
func ZeroAddress(family ChainFamily) string {
	if family == ChainFamilyTron {
		return TRON_ZERO_ADDRESS
	}
	return ETHEREUM_ZERO_ADDRESS
}
