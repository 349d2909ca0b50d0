package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ktl-XV/poap-webapp/config"
	"github.com/Ktl-XV/poap-webapp/identity"
	"github.com/Ktl-XV/poap-webapp/indexer"
	"github.com/Ktl-XV/poap-webapp/networks"
	"github.com/Ktl-XV/poap-webapp/transfer"
	"github.com/Ktl-XV/poap-webapp/ui"
)

var vitalik = common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

type stubResolver struct {
	id  identity.Identity
	err error
}

func (r stubResolver) Resolve(ctx context.Context, input string, allowEmail bool) (identity.Identity, error) {
	return r.id, r.err
}

type stubTokens []indexer.TokenInfo

func (s stubTokens) TokensFor(ctx context.Context, addressOrEmail string) ([]indexer.TokenInfo, error) {
	return s, nil
}

func token(id string, year int, name string) indexer.TokenInfo {
	return indexer.TokenInfo{
		TokenID: id,
		Event:   indexer.PoapEvent{Name: name, Year: year, City: "Lisbon", Country: "Portugal"},
	}
}

// useSession points the commands at a session answering from fakes and
// records what they print.
func useSession(t *testing.T, r stubResolver, tokens stubTokens, answers ...string) *ui.RecordingUI {
	t.Helper()
	rec := ui.NewRecordingUI(answers...)
	prevUI, prevFactory := appUI, sessionFactory
	appUI = rec
	sessionFactory = func(owner string) *transfer.Session {
		return transfer.NewSession(transfer.Options{
			Owner:    owner,
			Network:  networks.Gnosis,
			Resolver: r,
			Tokens:   tokens,
		})
	}
	t.Cleanup(func() {
		appUI, sessionFactory = prevUI, prevFactory
	})
	return rec
}

func runCmd(c *cobra.Command, args ...string) error {
	c.SetContext(context.Background())
	return c.RunE(c, args)
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		name string
		id   identity.Identity
		want string
	}{
		{"ens", identity.Identity{Kind: identity.KindAddress, Address: vitalik, ENS: "vitalik.eth", Valid: true}, "Hey vitalik.eth! (0xd8dA...6045)"},
		{"address", identity.Identity{Kind: identity.KindAddress, Address: vitalik, Valid: true}, "Hey " + vitalik.Hex() + "!"},
		{"email", identity.Identity{Kind: identity.KindEmail, Email: "me@poap.xyz", Valid: true}, "Hey me@poap.xyz!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, greeting(tt.id))
		})
	}
}

func TestYearRowsKeepsEmptyYears(t *testing.T) {
	now := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	groups := yearRows([]indexer.TokenInfo{
		token("1", 2022, "ETHLisbon"),
		token("2", 2022, "Devcon"),
		token("3", 2020, "Online meetup"),
	}, now)

	require.Len(t, groups, 4)
	assert.Equal(t, "You’ve been a couch potato all of 2023", groups[0][0][2])
	assert.Equal(t, [][]string{
		{"2022", "#1", "ETHLisbon", "Lisbon, Portugal", ""},
		{"", "#2", "Devcon", "Lisbon, Portugal", ""},
	}, groups[1])
	assert.Equal(t, "You’ve been a couch potato all of 2021", groups[2][0][2])
	assert.Equal(t, "#3", groups[3][0][1])
}

func TestScanPrintsListing(t *testing.T) {
	owner := identity.Identity{Kind: identity.KindAddress, Address: vitalik, ENS: "vitalik.eth", Valid: true}
	rec := useSession(t, stubResolver{id: owner}, stubTokens{token("7", time.Now().Year(), "ETHLisbon")})

	require.NoError(t, runCmd(scanCmd, "vitalik.eth"))
	assert.Equal(t, []string{"Hey vitalik.eth! (0xd8dA...6045)"}, rec.Messages("Critical"))
	assert.Equal(t, []string{msgListHeader}, rec.Messages("Section"))
	rows := rec.Messages("Row")
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0], "#7 | ETHLisbon")
	assert.Contains(t, rec.Output(), "ETHLisbon")
}

func TestScanLoadError(t *testing.T) {
	rec := useSession(t, stubResolver{err: errors.New("api down")}, nil)

	err := runCmd(scanCmd, "nobody.eth")
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, []string{msgLoadError}, rec.Messages("Error"))
}

func TestScanWithoutTokens(t *testing.T) {
	owner := identity.Identity{Kind: identity.KindAddress, Address: vitalik, Valid: true}
	rec := useSession(t, stubResolver{id: owner}, stubTokens{})

	require.NoError(t, runCmd(scanCmd, vitalik.Hex()))
	assert.True(t, rec.HasMessage(msgNoTokens))
	assert.Empty(t, rec.Messages("Row"))
}

func TestScanEmailSuggestsRedeem(t *testing.T) {
	owner := identity.Identity{Kind: identity.KindEmail, Email: "me@poap.xyz", Valid: true}
	rec := useSession(t, stubResolver{id: owner}, stubTokens{token("9", time.Now().Year(), "Devcon")})

	require.NoError(t, runCmd(scanCmd, "me@poap.xyz"))
	assert.True(t, rec.HasMessage("poap redeem me@poap.xyz"))
}

func TestChooseTokensInteractive(t *testing.T) {
	owner := identity.Identity{Kind: identity.KindAddress, Address: vitalik, Valid: true}
	tokens := stubTokens{token("1", 2022, "A"), token("2", 2022, "B"), token("3", 2021, "C")}
	rec := useSession(t, stubResolver{id: owner}, tokens, "1,3")

	s := sessionFactory(vitalik.Hex())
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, chooseTokens(s, s.Snapshot().Owner))
	assert.Equal(t, []transfer.TokenID{"1", "3"}, s.Snapshot().Selection.IDs())
	assert.Equal(t, []string{"Which badges do you want to transfer?"}, rec.Messages("ChooseMany"))
}

func TestChooseTokensRejectsForeignIDs(t *testing.T) {
	owner := identity.Identity{Kind: identity.KindAddress, Address: vitalik, Valid: true}
	rec := useSession(t, stubResolver{id: owner}, stubTokens{token("1", 2022, "A")})
	transferIDs = []string{"#1", "42"}
	t.Cleanup(func() { transferIDs = nil })

	s := sessionFactory(vitalik.Hex())
	defer s.Close()
	require.NoError(t, s.Load(context.Background()))

	assert.ErrorIs(t, chooseTokens(s, s.Snapshot().Owner), errReported)
	assert.Zero(t, s.Snapshot().Selection.Len())
	assert.True(t, rec.HasMessage("42"))
}

func TestProgressPrintsEachHashOnce(t *testing.T) {
	rec := ui.NewRecordingUI()
	p := newProgress(rec, networks.Gnosis)

	known := transfer.Snapshot{State: transfer.StateHashKnown, Record: transfer.Record{Hash: "0xabc"}}
	p.handle(transfer.Update{Kind: transfer.UpdateTransaction, Snapshot: known})
	p.handle(transfer.Update{Kind: transfer.UpdateTransaction, Snapshot: known})
	p.handle(transfer.Update{
		Kind:     transfer.UpdateTransaction,
		Snapshot: transfer.Snapshot{State: transfer.StateConfirmed, Record: transfer.Record{Hash: "0xabc"}},
		Notice:   &transfer.Notice{Level: transfer.NoticeSuccess, Message: transfer.MsgTransferred},
	})

	assert.Equal(t, []string{"Transfer transaction: https://gnosisscan.io/tx/0xabc"}, rec.Messages("Critical"))
	assert.Equal(t, []string{transfer.MsgTransferred}, rec.Messages("Success"))
}

func TestProgressSignalsRefresh(t *testing.T) {
	p := newProgress(ui.NewRecordingUI(), networks.Gnosis)
	p.handle(transfer.Update{Kind: transfer.UpdateRefreshed})
	p.handle(transfer.Update{Kind: transfer.UpdateRefreshed})

	select {
	case <-p.refreshed:
	default:
		t.Fatal("refresh was not signalled")
	}
}

func TestExplainTransfer(t *testing.T) {
	rec := ui.NewRecordingUI()
	explainTransfer(rec, 1)
	explainTransfer(rec, 3)

	infos := rec.Messages("Info")
	require.Len(t, infos, 3)
	assert.Equal(t, "Transferring 1 POAP takes a single transaction.", infos[0])
	assert.True(t, strings.HasPrefix(infos[1], "Transferring 3 POAPs takes 2 transactions"))
}

func TestReadNetworkConfig(t *testing.T) {
	n, err := readNetworkConfig(`{"name": "chiado", "chain_id": 10200, "block_explorer_url": "https://blockscout.chiadochain.net"}`)
	require.NoError(t, err)
	assert.Equal(t, "chiado", n.GetName())
	assert.Equal(t, uint64(10200), n.GetChainID())

	_, err = readNetworkConfig(`{"name": "nochain"}`)
	assert.Error(t, err)

	_, err = readNetworkConfig("")
	assert.Error(t, err)
}

func TestBuildRows(t *testing.T) {
	cfg := config.Global
	cfg.APIURL = "https://api.example.org"
	cfg.BatchContract = ""
	rows := buildRows(cfg, networks.Gnosis)
	assert.Equal(t, [2]string{"Version", VERSION}, rows[0])
	assert.Equal(t, [2]string{"Network", networks.Gnosis.GetName()}, rows[1])
	assert.Equal(t, [2]string{"Indexer", "https://api.example.org"}, rows[2])
	assert.Equal(t, "none, batches disabled", rows[4][1])

	cfg.BatchContract = "0x22C1f6050E56d2876009903609a2cC3fEf83B415"
	rows = buildRows(cfg, networks.Gnosis)
	assert.Equal(t, common.HexToAddress(cfg.BatchContract).Hex(), rows[4][1])
}
