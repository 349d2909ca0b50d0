package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const multitransferABI = `[
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"to","type":"address"},{"name":"tokenIds","type":"uint256[]"}],"outputs":[]}
]`

var multitransferContractABI = mustParseABI(multitransferABI)

// Multitransfer moves many tokens of an approved owner in one transaction.
type Multitransfer struct {
	address common.Address
}

func NewMultitransfer(address common.Address) *Multitransfer {
	return &Multitransfer{address: address}
}

func (m *Multitransfer) Address() common.Address {
	return m.address
}

func (m *Multitransfer) Transfer(token, to common.Address, tokenIDs []*big.Int) (Call, error) {
	return pack(multitransferContractABI, m.address, "transfer", token, to, tokenIDs)
}
