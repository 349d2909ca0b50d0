package transfer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/Ktl-XV/poap-webapp/contracts"
)

// TokenContract is the badge contract, *contracts.Poap satisfies it.
type TokenContract interface {
	Address() common.Address
	SafeTransferFrom(from, to common.Address, tokenID *big.Int) (contracts.Call, error)
	SetApprovalForAll(operator common.Address, approved bool) (contracts.Call, error)
	IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error)
}

// BatchContract is the multitransfer contract, *contracts.Multitransfer
// satisfies it.
type BatchContract interface {
	Address() common.Address
	Transfer(token, to common.Address, tokenIDs []*big.Int) (contracts.Call, error)
}

// Estimator simulates a call, *reader.EthReader satisfies it.
type Estimator interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

type EventKind int

const (
	EventHash EventKind = iota + 1
	EventReceipt
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventHash:
		return "hash"
	case EventReceipt:
		return "receipt"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Event is one step of a submitted transaction's lifecycle.
type Event struct {
	Kind    EventKind
	Hash    string
	Receipt *types.Receipt
	Err     error
}

// Succeeded reports a receipt with success status.
func (e Event) Succeeded() bool {
	return e.Kind == EventReceipt && e.Receipt != nil && e.Receipt.Status == types.ReceiptStatusSuccessful
}

// Sender submits one call. A returned error means nothing was broadcast.
// Otherwise the channel yields EventHash, then at most one of EventReceipt
// or EventError, and is closed. It closes early when ctx ends.
type Sender interface {
	Send(ctx context.Context, call contracts.Call, gasLimit uint64) (<-chan Event, error)
}
