package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Ktl-XV/poap-webapp/identity"
	"github.com/Ktl-XV/poap-webapp/ui"
)

var whoisCmd = &cobra.Command{
	Use:   "whois <address|ens>...",
	Short: "Show the ENS name of addresses, or the address of ENS names",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		resolver := identity.NewResolver(newIndexer())
		rows := make([][2]string, 0, len(args))
		for _, arg := range args {
			id, err := resolver.Resolve(cmd.Context(), arg, false)
			switch {
			case err != nil:
				rows = append(rows, [2]string{arg, appUI.Style(ui.Bad(err.Error()))})
			case !id.IsAddress():
				rows = append(rows, [2]string{arg, appUI.Style(ui.Careful("not found"))})
			default:
				rows = append(rows, [2]string{arg, id.Display()})
			}
		}
		appUI.KeyValue(rows)
	},
}

func init() {
	rootCmd.AddCommand(whoisCmd)
}
