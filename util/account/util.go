package account

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
)

func AddressFromPrivateKey(key *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func PrivateKeyFromKeystore(file string, password string) (string, *ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", nil, err
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return "", nil, fmt.Errorf("couldn't decrypt %s: %w", file, err)
	}
	return AddressFromPrivateKey(key.PrivateKey), key.PrivateKey, nil
}

// works with both 0x prefix form and naked form
func PrivateKeyFromHex(hex string) (string, *ecdsa.PrivateKey, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "0x")
	privkey, err := crypto.HexToECDSA(hex)
	if err != nil {
		return "", nil, err
	}
	return AddressFromPrivateKey(privkey), privkey, nil
}

// KeystoreAddress reads the address field of a keystore file without
// decrypting it.
func KeystoreAddress(file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	var key struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return "", fmt.Errorf("%s is not a keystore file: %w", file, err)
	}
	if key.Address == "" {
		return "", fmt.Errorf("%s has no address field", file)
	}
	if !strings.HasPrefix(key.Address, "0x") {
		key.Address = "0x" + key.Address
	}
	return key.Address, nil
}
