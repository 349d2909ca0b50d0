package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Ktl-XV/poap-webapp/config"
	"github.com/Ktl-XV/poap-webapp/wallet"
)

// addGlobalFlags registers the flags every command shares. Their values are
// read back through config.Load, not from variables.
func addGlobalFlags(c *cobra.Command) {
	pf := c.PersistentFlags()
	pf.StringP("network", "k", config.DefaultNetwork, "Network the badges live on. See poap network list for the valid values.")
	pf.String("api", config.DefaultAPIURL, "Base url of the POAP api")
	pf.StringSlice("node", nil, "Extra RPC node url, can be repeated")
	pf.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	pf.Bool("dev", false, "Human readable development logs")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	pf.StringVar(&config.ConfigFile, "config", "", "Config file, poap.yaml in the working directory or ~/.poap by default")
	pf.StringVar(&config.EnvFile, "env-file", "", "Env file, .env in the working directory by default")
}

// AddSignerFlags adds the flags choosing the account a command signs with.
func AddSignerFlags(c *cobra.Command) {
	c.Flags().
		StringP("from", "f", "", "Account to sign with. It can be an address or a hint to look it up among the registered accounts, see poap accounts list")
	c.Flags().
		String("keystore", "", "Keystore file to sign with. Its passphrase is asked, or read from "+wallet.PasswordEnv)
}
