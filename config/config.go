// Package config loads settings from flags, POAP_* environment variables, an
// optional .env file and an optional poap.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Ktl-XV/poap-webapp/contracts"
)

const (
	EnvPrefix                  = "POAP"
	DefaultNetwork             = "gnosis"
	DefaultAPIURL              = "https://api.poap.xyz"
	DefaultLogLevel            = "warn"
	DefaultReconciliationDelay = 3 * time.Second
)

type Config struct {
	Network             string        `mapstructure:"network"`
	APIURL              string        `mapstructure:"api_url"`
	TokenContract       string        `mapstructure:"token_contract"`
	BatchContract       string        `mapstructure:"batch_contract"`
	Nodes               []string      `mapstructure:"nodes"`
	From                string        `mapstructure:"from"`
	Keystore            string        `mapstructure:"keystore"`
	PrivateKey          string        `mapstructure:"private_key"`
	LogLevel            string        `mapstructure:"log_level"`
	Development         bool          `mapstructure:"development"`
	MetricsAddr         string        `mapstructure:"metrics_addr"`
	ReconciliationDelay time.Duration `mapstructure:"reconciliation_delay"`
}

// Global is the configuration of the running command, set by the root
// command before any subcommand runs.
var Global = Config{
	Network:             DefaultNetwork,
	APIURL:              DefaultAPIURL,
	TokenContract:       contracts.DefaultPoapAddress.Hex(),
	LogLevel:            DefaultLogLevel,
	ReconciliationDelay: DefaultReconciliationDelay,
}

// Values bound to the persistent flags of the root command.
var (
	ConfigFile string
	EnvFile    string
)

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"network":      "network",
	"api":          "api_url",
	"from":         "from",
	"keystore":     "keystore",
	"log-level":    "log_level",
	"metrics-addr": "metrics_addr",
	"node":         "nodes",
	"dev":          "development",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", DefaultNetwork)
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("token_contract", contracts.DefaultPoapAddress.Hex())
	v.SetDefault("batch_contract", "")
	v.SetDefault("nodes", []string{})
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("development", false)
	v.SetDefault("reconciliation_delay", DefaultReconciliationDelay)
	v.SetDefault("private_key", "")
}

// Load builds the configuration. Missing .env and poap.yaml files are not
// errors, malformed ones are.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile, envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("poap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if usr, err := user.Current(); err == nil {
			v.AddConfigPath(filepath.Join(usr.HomeDir, ".poap"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		envFile = ".env"
		if _, err := os.Stat(envFile); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Network == "" {
		return fmt.Errorf("network must be set")
	}
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("invalid api_url %q: %w", c.APIURL, err)
	}
	if !common.IsHexAddress(c.TokenContract) {
		return fmt.Errorf("invalid token_contract %q", c.TokenContract)
	}
	if c.BatchContract != "" && !common.IsHexAddress(c.BatchContract) {
		return fmt.Errorf("invalid batch_contract %q", c.BatchContract)
	}
	if c.ReconciliationDelay < 0 {
		return fmt.Errorf("reconciliation_delay can't be negative")
	}
	return nil
}

func (c Config) TokenContractAddress() common.Address {
	return common.HexToAddress(c.TokenContract)
}

// BatchContractAddress reports false when no multitransfer contract is
// configured.
func (c Config) BatchContractAddress() (common.Address, bool) {
	if c.BatchContract == "" {
		return common.Address{}, false
	}
	return common.HexToAddress(c.BatchContract), true
}
