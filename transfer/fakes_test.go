package transfer

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Ktl-XV/poap-webapp/contracts"
	"github.com/Ktl-XV/poap-webapp/identity"
	"github.com/Ktl-XV/poap-webapp/indexer"
	"github.com/Ktl-XV/poap-webapp/networks"
	"github.com/Ktl-XV/poap-webapp/util/account"
	"github.com/Ktl-XV/poap-webapp/wallet"
)

var (
	tokenAddr = common.HexToAddress("0x22C1f6050E56d2876009903609a2cC3fEf83B415")
	batchAddr = common.HexToAddress("0x5d5E8d7Dc3e9D3A7a9bB0a0AAa7E5f3C9F4BA1aA")
	destAddr  = common.HexToAddress("0x000000000000000000000000000000000000bEEF")
)

const ownerKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func ownerAccount() *account.Account {
	key, err := crypto.HexToECDSA(ownerKeyHex)
	if err != nil {
		panic(err)
	}
	return account.NewKeyAccount(key)
}

func strangerAccount() *account.Account {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return account.NewKeyAccount(key)
}

type fakeResolver struct{}

func (fakeResolver) Resolve(ctx context.Context, input string, allowEmail bool) (identity.Identity, error) {
	switch {
	case identity.IsValidAddress(input):
		return identity.Identity{Input: input, Kind: identity.KindAddress, Address: common.HexToAddress(input), Valid: true}, nil
	case input == "friend.eth":
		return identity.Identity{Input: input, Kind: identity.KindAddress, Address: destAddr, ENS: input, Valid: true}, nil
	case allowEmail && identity.IsValidEmail(input):
		return identity.Identity{Input: input, Kind: identity.KindEmail, Email: input, Valid: true}, nil
	}
	return identity.Identity{Input: input}, nil
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens []indexer.TokenInfo
	calls  int
	err    error
}

func (f *fakeTokens) TokensFor(ctx context.Context, key string) ([]indexer.TokenInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.tokens, f.err
}

func (f *fakeTokens) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func tokensWithIDs(ids ...string) []indexer.TokenInfo {
	res := []indexer.TokenInfo{}
	for _, id := range ids {
		res = append(res, indexer.TokenInfo{TokenID: id, Event: indexer.PoapEvent{Name: "event " + id}})
	}
	return res
}

type fakeConnector struct {
	acc      *account.Account
	mismatch bool
	err      error
	calls    int
}

func (f *fakeConnector) Connect(ctx context.Context, expected networks.Network) (wallet.Connection, error) {
	f.calls++
	if f.err != nil {
		return wallet.Connection{}, f.err
	}
	if f.mismatch {
		return wallet.Connection{ChainID: 1, NetworkMismatch: true}, nil
	}
	return wallet.Connection{Account: f.acc, ChainID: expected.GetChainID()}, nil
}

// fakeToken builds real calls but answers isApprovedForAll itself.
type fakeToken struct {
	*contracts.Poap
	approved    bool
	approvedErr error
	queries     int
}

func newFakeToken() *fakeToken {
	return &fakeToken{Poap: contracts.NewPoap(tokenAddr, nil)}
}

func (f *fakeToken) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	f.queries++
	return f.approved, f.approvedErr
}

type fakeEstimator struct {
	mu   sync.Mutex
	raw  uint64
	err  error
	msgs []ethereum.CallMsg
}

func (f *fakeEstimator) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return f.raw, f.err
}

func (f *fakeEstimator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

type sentCall struct {
	Method string
	To     common.Address
	Gas    uint64
}

// fakeSender answers each call with the script registered for its method,
// or a mined successful receipt when there is none.
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentCall
	scripts map[string]func(hash string) (<-chan Event, error)
	sentCh  chan sentCall
}

func newFakeSender() *fakeSender {
	return &fakeSender{scripts: map[string]func(string) (<-chan Event, error){}, sentCh: make(chan sentCall, 10)}
}

func (f *fakeSender) on(method string, script func(hash string) (<-chan Event, error)) {
	f.scripts[method] = script
}

func (f *fakeSender) Send(ctx context.Context, call contracts.Call, gas uint64) (<-chan Event, error) {
	f.mu.Lock()
	sc := sentCall{Method: call.Method, To: call.To, Gas: gas}
	f.sent = append(f.sent, sc)
	hash := common.BigToHash(big.NewInt(int64(len(f.sent)))).Hex()
	script := f.scripts[call.Method]
	f.mu.Unlock()
	f.sentCh <- sc
	if script == nil {
		script = mined(types.ReceiptStatusSuccessful)
	}
	return script(hash)
}

func (f *fakeSender) Sent() []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentCall(nil), f.sent...)
}

func mined(status uint64) func(hash string) (<-chan Event, error) {
	return func(hash string) (<-chan Event, error) {
		ch := make(chan Event, 2)
		ch <- Event{Kind: EventHash, Hash: hash}
		ch <- Event{Kind: EventReceipt, Hash: hash, Receipt: &types.Receipt{Status: status, TxHash: common.HexToHash(hash)}}
		close(ch)
		return ch, nil
	}
}

func rejected(err error) func(hash string) (<-chan Event, error) {
	return func(string) (<-chan Event, error) { return nil, err }
}

var errNode = errors.New("node said no")

// manualScheduler records scheduled functions instead of running them.
type manualScheduler struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []func()
	stopped int
}

func (m *manualScheduler) schedule(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := len(m.pending)
	m.delays = append(m.delays, d)
	m.pending = append(m.pending, f)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.pending[idx] == nil {
			return false
		}
		m.pending[idx] = nil
		m.stopped++
		return true
	}
}

// fire runs every pending function as if its delay elapsed.
func (m *manualScheduler) fire() int {
	m.mu.Lock()
	fns := []func(){}
	for i, f := range m.pending {
		if f != nil {
			fns = append(fns, f)
			m.pending[i] = nil
		}
	}
	m.mu.Unlock()
	for _, f := range fns {
		f()
	}
	return len(fns)
}

func (m *manualScheduler) Delays() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.delays...)
}
