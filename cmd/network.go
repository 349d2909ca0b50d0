package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ktl-XV/poap-webapp/config"
	"github.com/Ktl-XV/poap-webapp/networks"
)

var (
	NetworkJSON  string
	NetworkForce bool
)

// readNetworkConfig accepts an inline json object or the path to a json file.
func readNetworkConfig(value string) (networks.Network, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("pass the network config with --json")
	}
	if strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}") {
		n, err := networks.NewNetworkFromJSON([]byte(value))
		if err != nil {
			return nil, fmt.Errorf("the provided json is not valid: %w", err)
		}
		return n, nil
	}
	content, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the provided json file: %w", err)
	}
	n, err := networks.NewNetworkFromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("the provided json is not a valid network config: %w", err)
	}
	return n, nil
}

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a network to the supported networks list locally",
	Long: `--json takes a network config json file path OR a json string, in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 100,
		"native_token_symbol": "xDAI",
		"native_token_decimal": 18,
		"block_time": 5,
		"node_variable_name": "MY_NETWORK_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"block_explorer_url": "https://gnosisscan.io"
	}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		newNetwork, err := readNetworkConfig(NetworkJSON)
		if err != nil {
			return err
		}

		names := append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...)
		for _, name := range names {
			if _, err := networks.GetNetwork(name); err != nil {
				continue
			}
			if !NetworkForce {
				appUI.Error("Network with name %s already exists. Abort. If you want to update the network, use flag --force.", name)
				return errReported
			}
			appUI.Warn("Network with name %s already exists. It will be replaced with the new network.", name)
		}

		if err := networks.AddNetwork(newNetwork); err != nil {
			appUI.Error("Failed to add the new network: %s", err)
			return errReported
		}
		appUI.Success("Network %s with chain ID %d added and saved to ~/.poap/networks/.", newNetwork.GetName(), newNetwork.GetChainID())
		return nil
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of the supported networks",
	Run: func(cmd *cobra.Command, args []string) {
		for i, n := range networks.GetSupportedNetworks() {
			appUI.Info("%d. %s, chain ID %d", i+1, n.GetName(), n.GetChainID())
			u := appUI.Indent()
			if alt := n.GetAlternativeNames(); len(alt) > 0 {
				u.Info("Also known as: %s", strings.Join(alt, ", "))
			}
			u.Info("Custom node variable: %s", n.GetNodeVariableName())
			u.Info("RPC nodes:")

			nodes := networks.Nodes(n, config.Global.Nodes...)
			keys := make([]string, 0, len(nodes))
			for k := range nodes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			rows := make([][2]string, 0, len(keys))
			for _, k := range keys {
				rows = append(rows, [2]string{"- " + k, nodes[k]})
			}
			u.KeyValue(rows)
		}

		appUI.Info("\nIf you want to add more networks to the list, use the following command:\n> poap network add --json <file>")
		appUI.Info("If you want to delete a network, just delete the corresponding json file in ~/.poap/networks/.")
	},
}

var networkCmd = &cobra.Command{
	Use:     "network",
	Aliases: []string{"networks"},
	Short:   "Manage the networks poap knows",
}

func init() {
	addNetworkCmd.Flags().StringVarP(&NetworkJSON, "json", "j", "", "Path to the network config json file, or the json itself")
	addNetworkCmd.Flags().BoolVar(&NetworkForce, "force", false, "Replace a network with the same name")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
