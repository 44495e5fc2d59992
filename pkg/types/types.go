package types

// Gas is a metered unit of computation cost.
type Gas = uint64

// Nonce is the per-(account, access key) strictly increasing counter
// enforced by the chain to prevent transaction replay.
type Nonce = uint64

// BlockHeight is the index of a block in the chain.
type BlockHeight = uint64

// StorageUsage is the number of state bytes an account occupies.
type StorageUsage = uint64

// Finality selects how settled a reference block must be. The wire
// values are fixed lowercase tokens consumed by the node.
type Finality string

const (
	// FinalityOptimistic uses the latest block with no finality guarantee.
	FinalityOptimistic Finality = "optimistic"
	// FinalityNearFinal uses a doomslug-final block.
	FinalityNearFinal Finality = "near-final"
	// FinalityFinal uses a fully final block. This is the default.
	FinalityFinal Finality = "final"
)
