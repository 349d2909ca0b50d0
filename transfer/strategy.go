package transfer

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Ktl-XV/poap-webapp/contracts"
)

type Strategy int

const (
	// StrategySingle calls safeTransferFrom on the token contract.
	StrategySingle Strategy = iota + 1
	// StrategyBatch approves the multitransfer contract if needed, then
	// calls its transfer.
	StrategyBatch
)

func (s Strategy) String() string {
	switch s {
	case StrategySingle:
		return "single"
	case StrategyBatch:
		return "batch"
	}
	return "unknown"
}

// SelectStrategy picks single for exactly one id and batch for more.
func SelectStrategy(ids []TokenID) (Strategy, error) {
	switch {
	case len(ids) == 0:
		return 0, ErrEmptySelection
	case len(ids) == 1:
		return StrategySingle, nil
	}
	return StrategyBatch, nil
}

// Intent is one requested transfer of a non empty set of tokens.
type Intent struct {
	From     common.Address
	To       common.Address
	TokenIDs []TokenID
}

func NewIntent(from, to common.Address, ids []TokenID) (Intent, error) {
	if len(ids) == 0 {
		return Intent{}, ErrEmptySelection
	}
	if to == (common.Address{}) {
		return Intent{}, ErrInvalidDestination
	}
	return Intent{From: from, To: to, TokenIDs: append([]TokenID(nil), ids...)}, nil
}

func (i Intent) Strategy() Strategy {
	s, _ := SelectStrategy(i.TokenIDs)
	return s
}

func (i Intent) bigIDs() ([]*big.Int, error) {
	res := make([]*big.Int, 0, len(i.TokenIDs))
	for _, id := range i.TokenIDs {
		v, err := contracts.ParseTokenID(string(id))
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// Call builds the transfer call for the intent's strategy. batch may be
// nil for single transfers.
func (i Intent) Call(token TokenContract, batch BatchContract) (contracts.Call, error) {
	ids, err := i.bigIDs()
	if err != nil {
		return contracts.Call{}, err
	}
	switch i.Strategy() {
	case StrategySingle:
		return token.SafeTransferFrom(i.From, i.To, ids[0])
	case StrategyBatch:
		if batch == nil {
			return contracts.Call{}, fmt.Errorf("no batch transfer contract configured")
		}
		return batch.Transfer(token.Address(), i.To, ids)
	}
	return contracts.Call{}, ErrEmptySelection
}
