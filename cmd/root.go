// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/config"
	"github.com/Ktl-XV/poap-webapp/logger"
	"github.com/Ktl-XV/poap-webapp/metrics"
	"github.com/Ktl-XV/poap-webapp/networks"
	"github.com/Ktl-XV/poap-webapp/ui"
)

// appUI is what every command prints to and asks from. Tests swap it for a
// ui.RecordingUI.
var appUI ui.UI = ui.NewTerminalUI()

// errReported is returned by commands that already told the user what went
// wrong, so Execute only sets the exit code.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "poap",
	Short: "Look up and transfer your POAP badges",
	Long: fmt.Sprintf(`poap shows the badges held by an address, an ENS name or an email,
grouped by the year of their event, and transfers them to another address.

Transferring one badge takes a single transaction. Transferring several goes
through the multitransfer contract set as batch_contract and takes two: one
approving that contract as operator of your badges (only the first time),
then the transfer itself.

Settings are read from flags, POAP_* environment variables, a .env file and
poap.yaml (in the working directory or ~/.poap), in that order. By default
poap talks to gnosis through its public nodes. You can add your own node by
setting %s, or any network's node variable listed by:
	poap network list

Transactions are signed with a keystore: pass it with --keystore, register it
once with "poap accounts add" and pick it with --from, or set
POAP_PRIVATE_KEY.`,
		networks.Gnosis.GetNodeVariableName(),
	),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.New(), cmd.Flags(), config.ConfigFile, config.EnvFile)
	if err != nil {
		return err
	}
	config.Global = cfg

	if err := logger.Init(cfg.LogLevel, cfg.Development); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	if err := networks.SetNetwork(cfg.Network); err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cmd.Context(), cfg.MetricsAddr); err != nil {
				logger.Error("metrics server stopped", zap.String("addr", cfg.MetricsAddr), zap.Error(err))
			}
		}()
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		if !errors.Is(err, errReported) {
			appUI.Error("%s", err)
		}
		os.Exit(1)
	}
}

func init() {
	addGlobalFlags(rootCmd)
}
