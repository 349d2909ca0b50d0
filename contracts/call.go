// Package contracts packs calls to the POAP token contract and the
// multitransfer contract.
package contracts

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Call is a packed contract invocation ready to be estimated or sent.
type Call struct {
	Method string
	To     common.Address
	Data   []byte
}

// Msg turns the call into a message sent by from, for estimation or eth_call.
func (c Call) Msg(from common.Address) ethereum.CallMsg {
	to := c.To
	return ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: big.NewInt(0),
		Data:  c.Data,
	}
}

// Caller runs read-only calls, *reader.EthReader satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

func mustParseABI(def string) *abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Errorf("invalid abi: %w", err))
	}
	return &parsed
}

func pack(a *abi.ABI, to common.Address, method string, args ...interface{}) (Call, error) {
	data, err := a.Pack(method, args...)
	if err != nil {
		return Call{}, fmt.Errorf("packing %s: %w", method, err)
	}
	return Call{Method: method, To: to, Data: data}, nil
}

// ParseTokenID parses a decimal token id.
func ParseTokenID(id string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(id), 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid token id %q", id)
	}
	return v, nil
}
