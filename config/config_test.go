package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("network", "k", DefaultNetwork, "")
	fs.String("api", DefaultAPIURL, "")
	fs.String("log-level", DefaultLogLevel, "")
	return fs
}

func TestDefaults(t *testing.T) {
	// an explicitly named but missing env file is an error
	_, err := Load(viper.New(), testFlags(), "", filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	cfg, err := Load(viper.New(), testFlags(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "gnosis", cfg.Network)
	assert.Equal(t, DefaultReconciliationDelay, cfg.ReconciliationDelay)
	_, ok := cfg.BatchContractAddress()
	assert.False(t, ok)
}

func TestPrecedenceFlagOverEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "poap.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
network: sepolia
api_url: https://file.example
batch_contract: "0x3333333333333333333333333333333333333333"
reconciliation_delay: 5s
nodes:
  - http://localhost:8545
`), 0o644))

	t.Setenv("POAP_API_URL", "https://env.example")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--log-level", "debug"}))

	cfg, err := Load(viper.New(), fs, file, "")
	require.NoError(t, err)
	assert.Equal(t, "sepolia", cfg.Network)
	assert.Equal(t, "https://env.example", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.ReconciliationDelay)
	assert.Equal(t, []string{"http://localhost:8545"}, cfg.Nodes)
	batch, ok := cfg.BatchContractAddress()
	require.True(t, ok)
	assert.Equal(t, "0x3333333333333333333333333333333333333333", batch.Hex())
}

func TestEnvFileIsLoaded(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("POAP_BATCH_CONTRACT=0x4444444444444444444444444444444444444444\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("POAP_BATCH_CONTRACT") })

	cfg, err := Load(viper.New(), testFlags(), "", envFile)
	require.NoError(t, err)
	assert.Equal(t, "0x4444444444444444444444444444444444444444", cfg.BatchContract)
}

func TestValidate(t *testing.T) {
	good := Global
	assert.NoError(t, good.Validate())

	bad := Global
	bad.TokenContract = "poap"
	assert.Error(t, bad.Validate())

	bad = Global
	bad.APIURL = "not a url"
	assert.Error(t, bad.Validate())
}
