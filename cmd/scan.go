package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <address|email|ens>",
	Short: "Show the badges of an address, an email or an ENS name",
	Long: `Lists the badges held by the given owner grouped by the year of their
event, from this year down to the oldest one. Badges reserved for an email
are listed too, they can be claimed with poap redeem.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := sessionFactory(args[0])
		defer s.Close()

		stop := appUI.Spinner("Looking for your badges...")
		err := s.Load(cmd.Context())
		stop()
		if err != nil {
			appUI.Error(msgLoadError)
			return errReported
		}

		printOwner(appUI, s.Snapshot().Owner, time.Now())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
