package networks

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/logger"
)

// Insert more Network implementation here to support
// more chains
var supportedNetworks = []Network{
	Gnosis,
	EthereumMainnet,
	Sepolia,
}

var (
	globalSupportedNetworks *networks
	registryOnce            sync.Once
)

var ErrNetworkNotFound = fmt.Errorf("network not found")

type networks struct {
	mu           sync.RWMutex
	networks     map[string]Network
	networksByID map[uint64]Network
}

func registry() *networks {
	registryOnce.Do(func() {
		globalSupportedNetworks = newSupportedNetworks(supportedNetworks, customNetworksDir())
	})
	return globalSupportedNetworks
}

func (n *networks) add(network Network, allowOverride bool) error {
	names := append([]string{network.GetName()}, network.GetAlternativeNames()...)
	for _, name := range names {
		if existing, found := n.networks[name]; found && !allowOverride {
			return fmt.Errorf("network with name or alternative name of '%s' already exists (%s)", name, existing.GetName())
		}
	}
	for _, name := range names {
		n.networks[name] = network
	}
	n.networksByID[network.GetChainID()] = network
	return nil
}

func (n *networks) getNetworkByID(id uint64) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networksByID[id]
	if !found {
		return nil, fmt.Errorf("network id %d: %w", id, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) getNetwork(name string) (Network, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res, found := n.networks[name]
	if !found {
		return nil, fmt.Errorf("network name '%s': %w", name, ErrNetworkNotFound)
	}
	return res, nil
}

func (n *networks) list() []Network {
	n.mu.RLock()
	defer n.mu.RUnlock()
	res := make([]Network, 0, len(n.networksByID))
	for _, network := range n.networksByID {
		res = append(res, network)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].GetChainID() < res[j].GetChainID() })
	return res
}

func newSupportedNetworks(builtin []Network, customDir string) *networks {
	result := &networks{
		networks:     map[string]Network{},
		networksByID: map[uint64]Network{},
	}
	for _, n := range builtin {
		if err := result.add(n, false); err != nil {
			panic(err)
		}
	}

	if customDir == "" {
		return result
	}
	customNetworks, err := loadCustomNetworks(customDir)
	if err != nil {
		logger.Warn("failed to load custom networks, continuing with built-in networks", zap.Error(err))
		return result
	}
	for _, n := range customNetworks {
		if _, found := result.networksByID[n.GetChainID()]; found {
			logger.Info("custom network overrides built-in one", zap.String("network", n.GetName()), zap.Uint64("chain_id", n.GetChainID()))
		}
		result.add(n, true)
	}
	return result
}

func customNetworksDir() string {
	usr, err := user.Current()
	if err != nil {
		return ""
	}
	return filepath.Join(usr.HomeDir, ".poap", "networks")
}

func loadCustomNetworks(dir string) ([]Network, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob json files in %s: %w", dir, err)
	}

	result := []Network{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", file, err)
		}
		network, err := NewNetworkFromJSON(content)
		if err != nil {
			logger.Warn("skipping malformed custom network", zap.String("file", file), zap.Error(err))
			continue
		}
		result = append(result, network)
	}
	return result, nil
}

func NewNetworkFromJSON(content []byte) (Network, error) {
	networkConfig := GenericNetworkConfig{}
	if err := json.Unmarshal(content, &networkConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal network config: %w", err)
	}
	if networkConfig.Name == "" || networkConfig.ChainID == 0 {
		return nil, fmt.Errorf("network config needs a name and a chain id")
	}
	return NewGenericNetwork(networkConfig), nil
}

// GetSupportedNetworks returns every known network once, ordered by chain id.
func GetSupportedNetworks() []Network {
	return registry().list()
}

func GetNetwork(name string) (Network, error) {
	return registry().getNetwork(name)
}

func GetNetworkByID(id uint64) (Network, error) {
	return registry().getNetworkByID(id)
}

// AddNetwork registers n, replacing networks sharing one of its names, and
// saves it to ~/.poap/networks so later runs know it too.
func AddNetwork(n Network) error {
	return registry().save(n, customNetworksDir())
}

func (n *networks) save(network Network, dir string) error {
	if dir == "" {
		return fmt.Errorf("no directory to save custom networks to")
	}
	content, err := json.MarshalIndent(network, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding network %s: %w", network.GetName(), err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, network.GetName()+".json"), content, 0o644); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.add(network, true)
}
