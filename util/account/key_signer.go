package account

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

// KeySigner signs with a key held in memory, such as one decrypted from a
// keystore file.
type KeySigner struct {
	key *ecdsa.PrivateKey
}

func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

// SignTx refuses a chain id that disagrees with the one a typed tx already
// carries, so a transfer built for one network is never signed for another.
func (ks *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("invalid chain id %v", chainID)
	}
	if tx.Type() != types.LegacyTxType && tx.ChainId().Cmp(chainID) != 0 {
		return nil, fmt.Errorf("tx is for chain %s, not %s", tx.ChainId(), chainID)
	}
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), ks.key)
}
