package networks

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/logger"
)

var (
	cachedNetwork Network
	mu            sync.Mutex
)

// CurrentNetwork returns the network selected with SetNetwork, Gnosis by
// default.
func CurrentNetwork() Network {
	mu.Lock()
	defer mu.Unlock()
	if cachedNetwork == nil {
		cachedNetwork = Gnosis
	}
	return cachedNetwork
}

func SetNetwork(name string) error {
	network, err := GetNetwork(name)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if cachedNetwork != nil && cachedNetwork.GetName() != network.GetName() {
		logger.Info("switched network", zap.String("network", network.GetName()))
	}
	cachedNetwork = network
	return nil
}

// Nodes returns the RPC endpoints to use for n: its defaults, the node set
// in n's environment variable and any extra endpoints from configuration.
func Nodes(n Network, extra ...string) map[string]string {
	nodes := map[string]string{}
	for name, url := range n.GetDefaultNodes() {
		nodes[name] = url
	}
	if custom := strings.TrimSpace(os.Getenv(n.GetNodeVariableName())); custom != "" {
		nodes["custom-node"] = custom
	}
	for i, url := range extra {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		nodes[fmt.Sprintf("config-node-%d", i)] = url
	}
	return nodes
}
