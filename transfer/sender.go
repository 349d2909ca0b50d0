package transfer

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	poapcommon "github.com/Ktl-XV/poap-webapp/common"
	"github.com/Ktl-XV/poap-webapp/contracts"
)

// TxReader is the part of *reader.EthReader needed to price and order a tx.
type TxReader interface {
	GetPendingNonce(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	CheckDynamicFeeTxAvailable(ctx context.Context) (bool, error)
}

type TxBroadcaster interface {
	BroadcastTx(ctx context.Context, tx *types.Transaction) (hash string, ok bool, err error)
}

type TxWaiter interface {
	MakeWaitChannel(ctx context.Context, hash string) <-chan poapcommon.TxInfo
}

// TxSigner is satisfied by *account.Account.
type TxSigner interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// ChainSender signs calls with one account and follows them until mined.
type ChainSender struct {
	signer      TxSigner
	reader      TxReader
	broadcaster TxBroadcaster
	waiter      TxWaiter
	chainID     *big.Int
	log         *zap.Logger

	mu        sync.Mutex
	lastNonce *uint64
}

func NewChainSender(signer TxSigner, r TxReader, b TxBroadcaster, w TxWaiter, chainID uint64, log *zap.Logger) *ChainSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChainSender{
		signer:      signer,
		reader:      r,
		broadcaster: b,
		waiter:      w,
		chainID:     new(big.Int).SetUint64(chainID),
		log:         log.With(zap.String("from", signer.Address().Hex())),
	}
}

// nextNonce never goes below one past the last nonce this sender used, so
// a node lagging behind our own previous tx can't make us reuse it.
func (s *ChainSender) nextNonce(ctx context.Context) (uint64, error) {
	nonce, err := s.reader.GetPendingNonce(ctx, s.signer.Address())
	if err != nil {
		return 0, fmt.Errorf("getting nonce: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastNonce != nil && nonce <= *s.lastNonce {
		nonce = *s.lastNonce + 1
	}
	return nonce, nil
}

func (s *ChainSender) markUsed(nonce uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastNonce = &nonce
}

func (s *ChainSender) fees(ctx context.Context) (price *big.Int, tip *big.Int, err error) {
	price, err = s.reader.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("getting gas price: %w", err)
	}
	dynamic, err := s.reader.CheckDynamicFeeTxAvailable(ctx)
	if err != nil || !dynamic {
		return price, nil, nil
	}
	tip, err = s.reader.SuggestGasTipCap(ctx)
	if err != nil {
		s.log.Debug("couldn't get tip cap, sending legacy tx", zap.Error(err))
		return price, nil, nil
	}
	// fee cap at twice the suggested price
	feeCap := new(big.Int).Mul(price, big.NewInt(2))
	if feeCap.Cmp(tip) < 0 {
		feeCap = new(big.Int).Set(tip)
	}
	return feeCap, tip, nil
}

func (s *ChainSender) Send(ctx context.Context, call contracts.Call, gasLimit uint64) (<-chan Event, error) {
	nonce, err := s.nextNonce(ctx)
	if err != nil {
		return nil, err
	}
	price, tip, err := s.fees(ctx)
	if err != nil {
		return nil, err
	}
	tx := poapcommon.BuildContractTx(nonce, call.To, nil, gasLimit, price, tip, call.Data, s.chainID)
	signed, err := s.signer.SignTx(tx, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("signing %s: %w", call.Method, err)
	}
	hash, ok, err := s.broadcaster.BroadcastTx(ctx, signed)
	if !ok {
		return nil, fmt.Errorf("broadcasting %s: %w", call.Method, err)
	}
	s.markUsed(nonce)
	s.log.Info("tx broadcasted",
		zap.String("method", call.Method),
		zap.String("hash", hash),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gasLimit),
		zap.String("fee_cap_gwei", poapcommon.WeiToGwei(price)),
	)

	events := make(chan Event, 2)
	events <- Event{Kind: EventHash, Hash: hash}
	go s.follow(ctx, hash, events)
	return events, nil
}

func (s *ChainSender) follow(ctx context.Context, hash string, events chan<- Event) {
	defer close(events)
	info, ok := <-s.waiter.MakeWaitChannel(ctx, hash)
	if !ok {
		s.log.Debug("stopped waiting for tx", zap.String("hash", hash))
		return
	}
	switch info.Status {
	case poapcommon.TxStatusDone, poapcommon.TxStatusReverted:
		if cost := info.GasCost(); cost != nil {
			s.log.Info("tx mined",
				zap.String("hash", hash),
				zap.String("status", string(info.Status)),
				zap.String("fee", poapcommon.BigToFloatString(cost, 18)),
			)
		}
		events <- Event{Kind: EventReceipt, Hash: hash, Receipt: info.Receipt}
	case poapcommon.TxStatusLost:
		events <- Event{Kind: EventError, Hash: hash, Err: fmt.Errorf("%w: %s", ErrTxLost, hash)}
	default:
		events <- Event{Kind: EventError, Hash: hash, Err: fmt.Errorf("unexpected tx status %s", info.Status)}
	}
}
