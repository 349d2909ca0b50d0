package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Ktl-XV/poap-webapp/config"
	"github.com/Ktl-XV/poap-webapp/networks"
)

const VERSION = "0.3.0"

// buildRows describes the binary and where it points: badges are read from
// the indexer and moved on the chain of the active network.
func buildRows(cfg config.Config, network networks.Network) [][2]string {
	batch := "none, batches disabled"
	if addr, ok := cfg.BatchContractAddress(); ok {
		batch = addr.Hex()
	}
	return [][2]string{
		{"Version", VERSION},
		{"Network", network.GetName()},
		{"Indexer", cfg.APIURL},
		{"Badge contract", cfg.TokenContractAddress().Hex()},
		{"Batch contract", batch},
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show poap version and the endpoints it uses",
	Run: func(cmd *cobra.Command, args []string) {
		appUI.KeyValue(buildRows(config.Global, networks.CurrentNetwork()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
