package networks

var Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "sepolia",
	AlternativeNames:   []string{},
	ChainID:            11155111,
	NativeTokenSymbol:  "ETH",
	NativeTokenDecimal: 18,
	BlockTime:          12,
	NodeVariableName:   "ETHEREUM_SEPOLIA_NODE",
	DefaultNodes: map[string]string{
		"sepolia-public": "https://ethereum-sepolia-rpc.publicnode.com",
	},
	BlockExplorerURL: "https://sepolia.etherscan.io",
})
