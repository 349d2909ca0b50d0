package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ktl-XV/poap-webapp/accounts"
)

var accountDesc string

var accountsCmd = &cobra.Command{
	Use:     "accounts",
	Aliases: []string{"acc", "wallet"},
	Short:   "Manage the keystores you sign transfers with",
}

var addAccountCmd = &cobra.Command{
	Use:   "add <keystore file>",
	Short: "Register a keystore so it can be picked with --from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := accounts.DefaultRegistry()
		if err != nil {
			return err
		}
		appUI.Warn("Keystore is convenient but not so safe. Use it only for accounts holding badges you could afford to lose.")

		desc := strings.TrimSpace(accountDesc)
		if desc == "" {
			appUI.Info("Please enter a description of this account, it is matched against the --from hint later")
			desc = strings.TrimSpace(appUI.Ask(nil))
		}
		acc, err := registry.AddKeystore(args[0], desc)
		if err != nil {
			appUI.Error("Couldn't register the keystore: %s. Abort.", err)
			return errReported
		}
		appUI.Success("Registered %s (%s).", acc.Address, acc.Keypath)
		appUI.Info("The registry keeps the path of the keystore, so please don't move the file later.")
		appUI.Info("You can check your accounts with:\n> poap accounts list")
		return nil
	},
}

var listAccountsCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the registered accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := accounts.DefaultRegistry()
		if err != nil {
			return err
		}
		accs := registry.List()
		appUI.Info("You have %d accounts:", len(accs))
		rows := make([][]string, 0, len(accs))
		for _, acc := range accs {
			rows = append(rows, []string{acc.Address, acc.Kind, acc.Desc})
		}
		if len(rows) > 0 {
			appUI.Table([]string{"Address", "Kind", "Description"}, rows)
		}
		appUI.Info("\nIf you want to add more accounts to the list, use the following command:\n> poap accounts add <keystore file>")
		return nil
	},
}

func init() {
	addAccountCmd.Flags().StringVarP(&accountDesc, "desc", "d", "", "Description used to find the account by hint")
	accountsCmd.AddCommand(listAccountsCmd)
	accountsCmd.AddCommand(addAccountCmd)
	rootCmd.AddCommand(accountsCmd)
}
