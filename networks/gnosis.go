package networks

// Gnosis is the layer 2 the badges live on.
var Gnosis Network = NewGenericNetwork(GenericNetworkConfig{
	Name:               "gnosis",
	AlternativeNames:   []string{"xdai"},
	ChainID:            100,
	NativeTokenSymbol:  "xDAI",
	NativeTokenDecimal: 18,
	BlockTime:          5,
	NodeVariableName:   "GNOSIS_MAINNET_NODE",
	DefaultNodes: map[string]string{
		"gnosis-public": "https://rpc.gnosischain.com",
		"gnosis-ankr":   "https://rpc.ankr.com/gnosis",
	},
	BlockExplorerURL: "https://gnosisscan.io",
})
