package account

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestPrivateKeyAccountSignsForItsAddress(t *testing.T) {
	acc, err := NewPrivateKeyAccount(testKeyHex)
	require.NoError(t, err)

	chainID := big.NewInt(100)
	to := common.HexToAddress("0x22C1f6050E56d2876009903609a2cC3fEf83B415")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: chainID, Nonce: 1, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(2), Gas: 60000, To: &to,
	})
	signed, err := acc.SignTx(tx, chainID)
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, acc.Address(), sender)
}

func TestPrivateKeyFromHexAcceptsBothForms(t *testing.T) {
	a, _, err := PrivateKeyFromHex(testKeyHex)
	require.NoError(t, err)
	b, _, err := PrivateKeyFromHex(testKeyHex[2:])
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, _, err = PrivateKeyFromHex("0xnothex")
	assert.Error(t, err)
}

func TestKeystoreRoundTrip(t *testing.T) {
	_, priv, err := PrivateKeyFromHex(testKeyHex)
	require.NoError(t, err)
	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	data, err := keystore.EncryptKey(key, "secret", keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(file, data, 0o600))

	addr, err := KeystoreAddress(file)
	require.NoError(t, err)
	assert.True(t, common.HexToAddress(addr) == key.Address)

	acc, err := NewKeystoreAccount(file, "secret")
	require.NoError(t, err)
	assert.Equal(t, key.Address, acc.Address())

	_, err = NewKeystoreAccount(file, "wrong")
	assert.Error(t, err)
}

func TestKeySignerRejectsMismatchedChain(t *testing.T) {
	_, key, err := PrivateKeyFromHex(testKeyHex)
	require.NoError(t, err)
	signer := NewKeySigner(key)

	to := common.HexToAddress("0x22C1f6050E56d2876009903609a2cC3fEf83B415")
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: big.NewInt(100), Nonce: 1, GasTipCap: big.NewInt(1), GasFeeCap: big.NewInt(2), Gas: 60000, To: &to,
	})
	_, err = signer.SignTx(tx, big.NewInt(1))
	assert.ErrorContains(t, err, "not 1")

	_, err = signer.SignTx(tx, nil)
	assert.Error(t, err)

	legacy := types.NewTx(&types.LegacyTx{Nonce: 1, GasPrice: big.NewInt(2), Gas: 21000, To: &to})
	signed, err := signer.SignTx(legacy, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), signed.ChainId())
}
