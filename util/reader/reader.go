package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	poapcommon "github.com/Ktl-XV/poap-webapp/common"
)

// EthReader fans every read out to all of its nodes and takes the first
// successful answer.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	ns := map[string]EthereumNode{}
	for name, url := range nodes {
		ns[name] = NewOneNodeReader(name, url)
	}
	return NewEthReaderWithNodes(ns)
}

func NewEthReaderWithNodes(nodes map[string]EthereumNode) *EthReader {
	return &EthReader{nodes: nodes}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

// firstSuccess runs read against every node concurrently. It returns the
// first value read without error, or all node errors joined.
func firstSuccess[T any](er *EthReader, read func(n EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("no nodes configured")
	}
	resCh := make(chan nodeResult[T], len(er.nodes))
	for _, n := range er.nodes {
		go func(n EthereumNode) {
			v, err := read(n)
			resCh <- nodeResult[T]{Value: v, Error: wrapError(err, n.NodeName())}
		}(n)
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID(ctx context.Context) (*big.Int, error) {
	return firstSuccess(er, func(n EthereumNode) (*big.Int, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return firstSuccess(er, func(n EthereumNode) (uint64, error) {
		return n.EstimateGas(ctx, msg)
	})
}

func (er *EthReader) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return firstSuccess(er, func(n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, msg)
	})
}

func (er *EthReader) GetPendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	return firstSuccess(er, func(n EthereumNode) (uint64, error) {
		return n.PendingNonceAt(ctx, account)
	})
}

func (er *EthReader) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return firstSuccess(er, func(n EthereumNode) (*big.Int, error) {
		return n.SuggestGasPrice(ctx)
	})
}

// SuggestGasTipCap adds 20% to the node's suggested tip.
func (er *EthReader) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	tip, err := firstSuccess(er, func(n EthereumNode) (*big.Int, error) {
		return n.SuggestGasTipCap(ctx)
	})
	if err != nil {
		return nil, err
	}
	tip = new(big.Int).Mul(tip, big.NewInt(12))
	return tip.Div(tip, big.NewInt(10)), nil
}

func (er *EthReader) HeaderByNumber(ctx context.Context, number int64) (*types.Header, error) {
	return firstSuccess(er, func(n EthereumNode) (*types.Header, error) {
		return n.HeaderByNumber(ctx, number)
	})
}

// CheckDynamicFeeTxAvailable looks for a positive base fee on the latest
// header.
func (er *EthReader) CheckDynamicFeeTxAvailable(ctx context.Context) (bool, error) {
	header, err := er.HeaderByNumber(ctx, -1)
	if err != nil {
		return false, err
	}
	return poapcommon.DynamicFeeAvailable(header), nil
}

func (er *EthReader) TransactionReceipt(ctx context.Context, txHash string) (*types.Receipt, error) {
	hash := common.HexToHash(txHash)
	return firstSuccess(er, func(n EthereumNode) (*types.Receipt, error) {
		return n.TransactionReceipt(ctx, hash)
	})
}

type txByHash struct {
	tx        *poapcommon.Transaction
	isPending bool
}

func (er *EthReader) TransactionByHash(ctx context.Context, txHash string) (*poapcommon.Transaction, bool, error) {
	hash := common.HexToHash(txHash)
	res, err := firstSuccess(er, func(n EthereumNode) (txByHash, error) {
		tx, pending, err := n.TransactionByHash(ctx, hash)
		return txByHash{tx, pending}, err
	})
	return res.tx, res.isPending, err
}

// TxInfoFromHash classifies a transaction as not found, pending, done or
// reverted.
func (er *EthReader) TxInfoFromHash(ctx context.Context, tx string) (poapcommon.TxInfo, error) {
	txObj, isPending, err := er.TransactionByHash(ctx, tx)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return poapcommon.TxInfo{Status: poapcommon.TxStatusNotFound}, nil
		}
		return poapcommon.TxInfo{Status: poapcommon.TxStatusError}, err
	}
	if txObj == nil {
		return poapcommon.TxInfo{Status: poapcommon.TxStatusNotFound}, nil
	}
	if isPending {
		return poapcommon.TxInfo{Status: poapcommon.TxStatusPending, Tx: txObj}, nil
	}

	receipt, err := er.TransactionReceipt(ctx, tx)
	if err != nil || receipt == nil {
		// mined according to the tx but the receipt isn't indexed yet
		return poapcommon.TxInfo{Status: poapcommon.TxStatusPending, Tx: txObj}, nil
	}

	// pre-byzantium receipts carry a post state root instead of a status
	if len(receipt.PostState) == len(common.Hash{}) || receipt.Status == types.ReceiptStatusSuccessful {
		return poapcommon.TxInfo{Status: poapcommon.TxStatusDone, Tx: txObj, Receipt: receipt}, nil
	}
	return poapcommon.TxInfo{Status: poapcommon.TxStatusReverted, Tx: txObj, Receipt: receipt}, nil
}
