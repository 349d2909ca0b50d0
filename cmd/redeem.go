package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/identity"
	"github.com/Ktl-XV/poap-webapp/logger"
)

var redeemCmd = &cobra.Command{
	Use:   "redeem <email>",
	Short: "Ask for the badges reserved for an email to be sent there for claiming",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(args[0])
		if !identity.IsValidEmail(email) {
			appUI.Error("Invalid email")
			return errReported
		}

		stop := appUI.Spinner("Sending your request...")
		err := newIndexer().RequestEmailRedeem(cmd.Context(), email)
		stop()
		if err != nil {
			logger.Warn("redeem request failed", zap.String("email", email), zap.Error(err))
			appUI.Error("An error occurred claiming your POAPs:\n%s", err)
			return errReported
		}
		appUI.Success("Your request was processed correctly! Please, check your email")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redeemCmd)
}
