package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// RawTxToHash returns the hash of a hex encoded signed transaction.
func RawTxToHash(data string) string {
	return crypto.Keccak256Hash(hexutil.MustDecode(data)).Hex()
}

// BuildContractTx builds an unsigned contract call transaction. When tipCap
// is nil a legacy transaction priced at gasPrice is returned, otherwise an
// EIP-1559 transaction using gasPrice as the fee cap.
func BuildContractTx(nonce uint64, to common.Address, value *big.Int, gasLimit uint64,
	gasPrice *big.Int, tipCap *big.Int, data []byte, chainID *big.Int) *types.Transaction {
	if value == nil {
		value = big.NewInt(0)
	}
	if tipCap != nil {
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tipCap,
			GasFeeCap: gasPrice,
			Gas:       gasLimit,
			To:        &to,
			Value:     value,
			Data:      data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
}

// DynamicFeeAvailable reports whether a block header carries a positive
// base fee, which means the chain accepts EIP-1559 transactions.
func DynamicFeeAvailable(header *types.Header) bool {
	return header != nil && header.BaseFee != nil && header.BaseFee.Cmp(common.Big0) > 0
}
