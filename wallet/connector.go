// Package wallet unlocks the signer a transfer is sent from and checks it
// talks to the expected network.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/accounts"
	"github.com/Ktl-XV/poap-webapp/logger"
	"github.com/Ktl-XV/poap-webapp/networks"
	"github.com/Ktl-XV/poap-webapp/util/account"
)

// ErrNoSigner means neither a private key, a keystore nor an account hint
// was configured.
var ErrNoSigner = errors.New("no signer configured, use --from, --keystore or POAP_PRIVATE_KEY")

// Connection is an unlocked account on a node. When NetworkMismatch is set
// Account is nil: nothing is unlocked on the wrong chain.
type Connection struct {
	Account         *account.Account
	ChainID         uint64
	NetworkMismatch bool
}

// ChainIDReader is satisfied by *reader.EthReader.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// PasswordFunc asks for the passphrase of a keystore.
type PasswordFunc func(prompt string) (string, error)

// KeystoreConnector unlocks, in order of preference, a hex private key, an
// explicit keystore file or the registered account matching From.
type KeystoreConnector struct {
	PrivateKey string
	Keystore   string
	From       string
	Registry   *accounts.Registry
	Password   PasswordFunc
	Chain      ChainIDReader

	log *zap.Logger
}

func (c *KeystoreConnector) logger() *zap.Logger {
	if c.log == nil {
		c.log = logger.Named("wallet")
	}
	return c.log
}

func (c *KeystoreConnector) Connect(ctx context.Context, expected networks.Network) (Connection, error) {
	chainID, err := c.Chain.ChainID(ctx)
	if err != nil {
		return Connection{}, fmt.Errorf("reading chain id: %w", err)
	}
	conn := Connection{ChainID: chainID.Uint64()}
	if conn.ChainID != expected.GetChainID() {
		c.logger().Warn("node is on another network",
			zap.Uint64("chain_id", conn.ChainID),
			zap.String("expected", expected.GetName()),
		)
		conn.NetworkMismatch = true
		return conn, nil
	}

	acc, err := c.unlock()
	if err != nil {
		return Connection{}, err
	}
	c.logger().Info("signer unlocked", zap.String("address", acc.AddressHex()))
	conn.Account = acc
	return conn, nil
}

func (c *KeystoreConnector) unlock() (*account.Account, error) {
	if strings.TrimSpace(c.PrivateKey) != "" {
		return account.NewPrivateKeyAccount(c.PrivateKey)
	}

	path := c.Keystore
	if path == "" {
		desc, err := c.lookup()
		if err != nil {
			return nil, err
		}
		path = desc.Keypath
	}
	if c.Password == nil {
		return nil, fmt.Errorf("no way to ask the passphrase of %s", path)
	}
	pwd, err := c.Password(fmt.Sprintf("Enter passphrase for %s: ", path))
	if err != nil {
		return nil, err
	}
	acc, err := account.NewKeystoreAccount(path, pwd)
	if err != nil {
		return nil, fmt.Errorf("unlocking keystore '%s' failed: %w", path, err)
	}
	return acc, nil
}

func (c *KeystoreConnector) lookup() (accounts.AccDesc, error) {
	if c.From == "" || c.Registry == nil {
		return accounts.AccDesc{}, ErrNoSigner
	}
	var (
		desc accounts.AccDesc
		err  error
	)
	if common.IsHexAddress(c.From) {
		desc, err = c.Registry.Find(common.HexToAddress(c.From).Hex())
	} else {
		desc, err = c.Registry.Find(c.From)
	}
	if err != nil {
		return accounts.AccDesc{}, err
	}
	if desc.Kind != accounts.KindKeystore {
		return accounts.AccDesc{}, fmt.Errorf("account %s is a %s account, only keystores are supported", desc.Address, desc.Kind)
	}
	return desc, nil
}
