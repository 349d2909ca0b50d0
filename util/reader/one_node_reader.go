package reader

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	poapcommon "github.com/Ktl-XV/poap-webapp/common"
)

const TIMEOUT time.Duration = 4 * time.Second

type OneNodeReader struct {
	nodeName  string
	nodeURL   string
	client    *rpc.Client
	ethClient *ethclient.Client
	mu        sync.Mutex
}

func NewOneNodeReader(name, url string) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

// connect dials the node on first use.
func (onr *OneNodeReader) connect() (*rpc.Client, *ethclient.Client, error) {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		return onr.client, onr.ethClient, nil
	}
	client, err := rpc.Dial(onr.nodeURL)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	onr.ethClient = ethclient.NewClient(client)
	return onr.client, onr.ethClient, nil
}

func (onr *OneNodeReader) EthClient() (*ethclient.Client, error) {
	_, ethcli, err := onr.connect()
	return ethcli, err
}

func (onr *OneNodeReader) ChainID(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.ChainID(timeout)
}

func (onr *OneNodeReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.EstimateGas(timeout, msg)
}

func (onr *OneNodeReader) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.CallContract(timeout, msg, nil)
}

func (onr *OneNodeReader) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.PendingNonceAt(timeout, account)
}

func (onr *OneNodeReader) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.SuggestGasPrice(timeout)
}

func (onr *OneNodeReader) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.SuggestGasTipCap(timeout)
}

// HeaderByNumber returns the latest header for a negative number.
func (onr *OneNodeReader) HeaderByNumber(ctx context.Context, number int64) (*types.Header, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	var numberBig *big.Int
	if number > -1 {
		numberBig = big.NewInt(number)
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.HeaderByNumber(timeout, numberBig)
}

func (onr *OneNodeReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ethcli, err := onr.EthClient()
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.TransactionReceipt(timeout, hash)
}

// TransactionByHash goes through the raw client so the block number comes
// back with the transaction.
func (onr *OneNodeReader) TransactionByHash(ctx context.Context, hash common.Hash) (*poapcommon.Transaction, bool, error) {
	cli, _, err := onr.connect()
	if err != nil {
		return nil, false, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()

	var json *poapcommon.Transaction
	if err := cli.CallContext(timeout, &json, "eth_getTransactionByHash", hash); err != nil {
		return nil, false, err
	}
	if json == nil {
		return nil, false, ethereum.NotFound
	}
	if _, r, _ := json.RawSignatureValues(); r == nil {
		return nil, false, fmt.Errorf("server returned transaction without signature")
	}
	return json, json.Pending(), nil
}
