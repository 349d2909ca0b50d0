package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetNativeTokenDecimal() uint64
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// GetBlockExplorerURL is the base URL of the human facing explorer,
	// used to link transaction hashes.
	GetBlockExplorerURL() string

	MarshalJSON() ([]byte, error)
}
