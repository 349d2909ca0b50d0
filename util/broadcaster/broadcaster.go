package broadcaster

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/common"
	"github.com/Ktl-XV/poap-webapp/logger"
)

const TIMEOUT = 4 * time.Second

// RPCClient is the part of *rpc.Client the broadcaster uses.
type RPCClient interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Broadcaster takes a signed tx and tries to broadcast it to all nodes it
// manages at once. The tx counts as broadcasted when at least one node
// accepted it.
type Broadcaster struct {
	clients map[string]RPCClient
}

func NewBroadcaster(clients map[string]RPCClient) *Broadcaster {
	return &Broadcaster{clients: clients}
}

func NewGenericBroadcaster(nodes map[string]string) *Broadcaster {
	clients := map[string]RPCClient{}
	for name, url := range nodes {
		client, err := rpc.Dial(url)
		if err != nil {
			logger.Warn("couldn't connect to node", zap.String("node", name), zap.Error(err))
			continue
		}
		clients[name] = client
	}
	return NewBroadcaster(clients)
}

func (b *Broadcaster) NodeCount() int {
	return len(b.clients)
}

// BroadcastTx returns the tx hash, whether any node accepted it and the
// joined errors of the nodes that did not.
func (b *Broadcaster) BroadcastTx(ctx context.Context, tx *types.Transaction) (string, bool, error) {
	data, err := tx.MarshalBinary()
	if err != nil {
		return "", false, fmt.Errorf("tx is not valid, couldn't use rlp to encode it: %w", err)
	}
	return b.Broadcast(ctx, hexutil.Encode(data))
}

// Broadcast sends a hex encoded signed tx.
func (b *Broadcaster) Broadcast(ctx context.Context, data string) (string, bool, error) {
	hash := common.RawTxToHash(data)
	if len(b.clients) == 0 {
		return hash, false, fmt.Errorf("no nodes to broadcast to")
	}

	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()

	failed := common.EachNode(timeout, b.clients, func(ctx context.Context, cli RPCClient) error {
		return cli.CallContext(ctx, nil, "eth_sendRawTransaction", data)
	})
	err := failed.Err()
	if failed.Failed() == len(b.clients) {
		return hash, false, err
	}
	if err != nil {
		logger.Debug("some nodes rejected the tx", zap.String("hash", hash), zap.Error(err))
	}
	return hash, true, nil
}
