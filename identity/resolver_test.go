package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ktl-XV/poap-webapp/indexer"
)

const vitalik = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

type fakeENS struct {
	names      map[string]string
	reverse    map[string]string
	resolveErr error
	lookupErr  error
	resolved   []string
}

func (f *fakeENS) ResolveENS(ctx context.Context, name string) (indexer.ENSResult, error) {
	f.resolved = append(f.resolved, name)
	if f.resolveErr != nil {
		return indexer.ENSResult{}, f.resolveErr
	}
	addr, ok := f.names[name]
	return indexer.ENSResult{Valid: ok, ENS: addr}, nil
}

func (f *fakeENS) LookupENS(ctx context.Context, address string) (indexer.ENSResult, error) {
	if f.lookupErr != nil {
		return indexer.ENSResult{}, f.lookupErr
	}
	name, ok := f.reverse[address]
	return indexer.ENSResult{Valid: ok, ENS: name}, nil
}

func TestResolveAddressWithReverseName(t *testing.T) {
	r := NewResolver(&fakeENS{reverse: map[string]string{vitalik: "vitalik.eth"}})
	id, err := r.Resolve(context.Background(), " "+vitalik+" ", false)
	require.NoError(t, err)
	assert.True(t, id.IsAddress())
	assert.Equal(t, common.HexToAddress(vitalik), id.Address)
	assert.Equal(t, "vitalik.eth", id.ENS)
	assert.Equal(t, "vitalik.eth (0xd8dA...6045)", id.Display())
}

func TestReverseLookupFailureIsIgnored(t *testing.T) {
	r := NewResolver(&fakeENS{lookupErr: errors.New("503")})
	id, err := r.Resolve(context.Background(), vitalik, false)
	require.NoError(t, err)
	assert.True(t, id.Valid)
	assert.Empty(t, id.ENS)
	assert.Equal(t, vitalik, id.Key())
}

func TestEmailOnlyWhenAllowed(t *testing.T) {
	ens := &fakeENS{}
	r := NewResolver(ens)

	id, err := r.Resolve(context.Background(), "me@example.com", true)
	require.NoError(t, err)
	assert.True(t, id.IsEmail())
	assert.Equal(t, "me@example.com", id.Key())
	assert.Empty(t, ens.resolved)

	id, err = r.Resolve(context.Background(), "me@example.com", false)
	require.NoError(t, err)
	assert.False(t, id.Valid)
	assert.Equal(t, []string{"me@example.com"}, ens.resolved)
}

func TestResolveENSName(t *testing.T) {
	r := NewResolver(&fakeENS{names: map[string]string{"vitalik.eth": vitalik}})

	id, err := r.Resolve(context.Background(), "vitalik.eth", false)
	require.NoError(t, err)
	assert.True(t, id.IsAddress())
	assert.Equal(t, "vitalik.eth", id.ENS)

	id, err = r.Resolve(context.Background(), "nobody.eth", false)
	require.NoError(t, err)
	assert.False(t, id.Valid)
}

func TestResolveENSUnreachable(t *testing.T) {
	r := NewResolver(&fakeENS{resolveErr: errors.New("timeout")})
	id, err := r.Resolve(context.Background(), "vitalik.eth", false)
	assert.Error(t, err)
	assert.False(t, id.Valid)
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("a.b@poap.xyz"))
	assert.False(t, IsValidEmail("Alice <a@poap.xyz>"))
	assert.False(t, IsValidEmail("a@localhost"))
	assert.False(t, IsValidEmail("vitalik.eth"))
}
