// Package accounts keeps a registry of the keystores the user signs with, so
// they can be picked by a short hint instead of a path.
package accounts

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/logger"
	"github.com/Ktl-XV/poap-webapp/util/account"
)

const KindKeystore = "keystore"

type AccDesc struct {
	Address string
	Kind    string
	Keypath string
	Desc    string
}

// Registry stores one JSON description per account in dir, named after the
// address.
type Registry struct {
	dir string
}

func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

// DefaultRegistry lives in ~/.poap/accounts.
func DefaultRegistry() (*Registry, error) {
	usr, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return NewRegistry(filepath.Join(usr.HomeDir, ".poap", "accounts")), nil
}

// AddKeystore registers a keystore file under desc after checking it holds
// an address.
func (r *Registry) AddKeystore(path, desc string) (AccDesc, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return AccDesc{}, err
	}
	addr, err := account.KeystoreAddress(abs)
	if err != nil {
		return AccDesc{}, err
	}
	acc := AccDesc{
		Address: common.HexToAddress(addr).Hex(),
		Kind:    KindKeystore,
		Keypath: abs,
		Desc:    desc,
	}
	return acc, r.Store(acc)
}

func (r *Registry) Store(accDesc AccDesc) error {
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}
	content, err := json.MarshalIndent(accDesc, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(r.dir, fmt.Sprintf("%s.json", accDesc.Address))
	return os.WriteFile(path, content, 0o600)
}

// List returns every readable description ordered by address. Unreadable
// files are logged and skipped.
func (r *Registry) List() []AccDesc {
	paths, err := filepath.Glob(filepath.Join(r.dir, "*.json"))
	if err != nil {
		logger.Warn("listing accounts failed", zap.Error(err))
		return nil
	}
	result := []AccDesc{}
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("reading account description failed", zap.String("file", p), zap.Error(err))
			continue
		}
		desc := AccDesc{}
		if err := json.Unmarshal(content, &desc); err != nil {
			logger.Warn("malformed account description", zap.String("file", p), zap.Error(err))
			continue
		}
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Address < result[j].Address })
	return result
}

type fuzzySource []AccDesc

func (s fuzzySource) Len() int {
	return len(s)
}

func (s fuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", s[i].Address, strings.ReplaceAll(s[i].Desc, " ", "_"))
}

// Find returns the best fuzzy match of input against address and
// description.
func (r *Registry) Find(input string) (AccDesc, error) {
	source := fuzzySource(r.List())
	matches := fuzzy.FindFrom(strings.ReplaceAll(input, " ", "_"), source)
	if len(matches) == 0 {
		return AccDesc{}, fmt.Errorf("no account is found with '%s'", input)
	}
	return source[matches[0].Index], nil
}
