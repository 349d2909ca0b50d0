package common

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TxStatus is the coarse state of a transaction as seen by the nodes.
type TxStatus string

const (
	TxStatusError    TxStatus = "error"
	TxStatusNotFound TxStatus = "notfound"
	TxStatusPending  TxStatus = "pending"
	TxStatusDone     TxStatus = "done"
	TxStatusReverted TxStatus = "reverted"
	TxStatusLost     TxStatus = "lost"
)

// Mined reports whether the transaction has a receipt, successful or not.
func (s TxStatus) Mined() bool {
	return s == TxStatusDone || s == TxStatusReverted
}

type TxInfo struct {
	Status  TxStatus
	Tx      *Transaction
	Receipt *types.Receipt
}

// GasCost returns the fee paid by a mined transaction, nil otherwise.
func (self *TxInfo) GasCost() *big.Int {
	if self.Receipt == nil {
		return nil
	}
	price := self.Receipt.EffectiveGasPrice
	if price == nil && self.Tx != nil {
		price = self.Tx.GasPrice()
	}
	if price == nil {
		return nil
	}
	return big.NewInt(0).Mul(big.NewInt(int64(self.Receipt.GasUsed)), price)
}

type Transaction struct {
	*types.Transaction
	Extra TxExtraInfo `json:"extra"`
}

type TxExtraInfo struct {
	BlockNumber *string         `json:"blockNumber,omitempty"`
	BlockHash   *common.Hash    `json:"blockHash,omitempty"`
	From        *common.Address `json:"from,omitempty"`
}

func (tx *Transaction) UnmarshalJSON(msg []byte) error {
	if err := json.Unmarshal(msg, &tx.Transaction); err != nil {
		return err
	}
	return json.Unmarshal(msg, &tx.Extra)
}

// Pending reports whether the node returned the transaction without a
// block number.
func (tx *Transaction) Pending() bool {
	return tx.Extra.BlockNumber == nil
}
