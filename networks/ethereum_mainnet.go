package networks

var EthereumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "mainnet",
	AlternativeNames:   []string{"ethereum"},
	ChainID:            1,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"mainnet-llamarpc": "https://eth.llamarpc.com",
		"mainnet-ankr":     "https://rpc.ankr.com/eth",
	},
	BlockExplorerURL: "https://etherscan.io",
})
