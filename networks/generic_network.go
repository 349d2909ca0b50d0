package networks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type GenericNetworkConfig struct {
	Name               string            `json:"name"`
	AlternativeNames   []string          `json:"alternative_names"`
	ChainID            uint64            `json:"chain_id"`
	NativeTokenSymbol  string            `json:"native_token_symbol"`
	NativeTokenDecimal uint64            `json:"native_token_decimal"`
	BlockTime          uint64            `json:"block_time"`
	NodeVariableName   string            `json:"node_variable_name"`
	DefaultNodes       map[string]string `json:"default_nodes"`
	BlockExplorerURL   string            `json:"block_explorer_url"`
}

// GenericNetwork is a network fully described by its config, built-in
// networks and the ones loaded from ~/.poap/networks alike.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	return &GenericNetwork{config: config}
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNativeTokenSymbol() string {
	return gn.config.NativeTokenSymbol
}

func (gn *GenericNetwork) GetNativeTokenDecimal() uint64 {
	return gn.config.NativeTokenDecimal
}

func (gn *GenericNetwork) GetBlockTime() time.Duration {
	return time.Duration(gn.config.BlockTime) * time.Second
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericNetwork) GetBlockExplorerURL() string {
	return strings.TrimRight(gn.config.BlockExplorerURL, "/")
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}

// TxURL links a transaction hash on the network's explorer. It returns the
// bare hash when no explorer is configured.
func TxURL(n Network, hash string) string {
	base := n.GetBlockExplorerURL()
	if base == "" {
		return hash
	}
	return fmt.Sprintf("%s/tx/%s", base, hash)
}
