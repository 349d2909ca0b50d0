package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ktl-XV/poap-webapp/config"
	"github.com/Ktl-XV/poap-webapp/networks"
	"github.com/Ktl-XV/poap-webapp/transfer"
	"github.com/Ktl-XV/poap-webapp/ui"
)

// refreshWait bounds how long the command waits for the listing refreshed
// after a confirmed transfer, on top of the reconciliation delay.
const refreshWait = 30 * time.Second

var (
	transferIDs []string
	transferAll bool
	transferTo  string
	transferYes bool
)

var transferCmd = &cobra.Command{
	Use:   "transfer <owner>",
	Short: "Transfer badges of an address to another address",
	Long: `Transfers badges held by <owner> (an address or an ENS name) to the
address or ENS name given with --to. The transaction is signed by the account
chosen with --from, --keystore or POAP_PRIVATE_KEY, which must be the owner.

Without --ids or --all, the badges are picked from the listing.

Transferring 1 POAP takes a single transaction. Transferring several takes
two: the first approves the multitransfer contract to move your badges, the
second transfers them. The approval is only sent once per owner.`,
	Args: cobra.ExactArgs(1),
	RunE: runTransfer,
}

// progress prints the lifecycle of an attempt as session updates arrive.
type progress struct {
	u       ui.UI
	network networks.Network
	state   transfer.State
	hashes  map[string]bool
	// refreshed receives once the listing was reloaded after a confirmation
	refreshed chan struct{}
}

func newProgress(u ui.UI, network networks.Network) *progress {
	return &progress{
		u:         u,
		network:   network,
		hashes:    map[string]bool{},
		refreshed: make(chan struct{}, 1),
	}
}

func (p *progress) handle(up transfer.Update) {
	switch up.Kind {
	case transfer.UpdateRefreshed:
		select {
		case p.refreshed <- struct{}{}:
		default:
		}
	case transfer.UpdateTransaction:
		snap := up.Snapshot
		if snap.State != p.state {
			p.state = snap.State
			if snap.State == transfer.StateSubmitted {
				p.u.Info("Waiting for the transaction to be signed and broadcast...")
			}
		}
		if h := snap.Record.Hash; h != "" && !p.hashes[h] {
			p.hashes[h] = true
			p.u.Critical("Transfer transaction: %s", networks.TxURL(p.network, h))
			p.u.Info("Waiting for it to be mined...")
		}
	}

	if n := up.Notice; n != nil {
		switch n.Level {
		case transfer.NoticeSuccess:
			p.u.Success("%s", n.Message)
		case transfer.NoticeError:
			p.u.Error("%s", n.Message)
		default:
			p.u.Info("%s", n.Message)
		}
	}
}

func runTransfer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := sessionFactory(args[0])
	defer s.Close()

	stop := appUI.Spinner("Looking for your badges...")
	err := s.Load(ctx)
	stop()
	if err != nil {
		appUI.Error(msgLoadError)
		return errReported
	}

	owner := s.Snapshot().Owner
	if !owner.Identity.IsAddress() {
		appUI.Error("Only badges held by an address can be transferred.")
		appUI.Info("Claim them first with:\n> poap redeem %s", owner.Identity.Email)
		return errReported
	}
	printOwner(appUI, owner, time.Now())
	if len(owner.Tokens) == 0 {
		return nil
	}

	if err := chooseTokens(s, owner); err != nil {
		return err
	}
	ids := s.Snapshot().Selection.IDs()
	if len(ids) == 0 {
		appUI.Info("Nothing selected.")
		return nil
	}
	if len(ids) > 1 {
		if _, ok := config.Global.BatchContractAddress(); !ok {
			appUI.Error("Transferring several badges needs the multitransfer contract. Set batch_contract in poap.yaml or POAP_BATCH_CONTRACT.")
			return errReported
		}
	}
	if err := s.StartTransfer(); err != nil {
		return err
	}

	p := newProgress(appUI, networks.CurrentNetwork())
	unsubscribe := s.Subscribe(p.handle)
	defer unsubscribe()

	explainTransfer(appUI, len(ids))
	for {
		to := transferTo
		if to == "" {
			appUI.Info("Recipient (address or ENS name)")
			to = strings.TrimSpace(appUI.Ask(func(in string) error {
				if strings.TrimSpace(in) == "" {
					return fmt.Errorf("the recipient can't be empty")
				}
				return nil
			}))
		}
		if !transferYes && !appUI.Confirm(fmt.Sprintf("Transfer %d POAP(s) to %s?", len(ids), to), false) {
			s.CloseRecipientPrompt()
			appUI.Info("Aborted.")
			return nil
		}

		err = s.ConfirmTransfer(ctx, to)
		// an interactive recipient can be corrected
		if errors.Is(err, transfer.ErrInvalidDestination) && transferTo == "" {
			continue
		}
		break
	}
	if err != nil {
		return errReported
	}

	waitForRefresh(cmd, p)
	printOwner(appUI, s.Snapshot().Owner, time.Now())
	return nil
}

// chooseTokens fills the selection from the flags, or asks for it.
func chooseTokens(s *transfer.Session, owner transfer.OwnerRecord) error {
	s.EnterSelectMode()
	switch {
	case transferAll:
		s.SelectAll()
		return nil
	case len(transferIDs) > 0:
		ids := []string{}
		for _, id := range transferIDs {
			ids = append(ids, strings.TrimPrefix(strings.TrimSpace(id), "#"))
		}
		if err := s.SelectTokens(transfer.TokenIDs(ids)...); err != nil {
			appUI.Error("Can't select the badges: %s", err)
			return errReported
		}
		return nil
	}

	picks := appUI.ChooseMany("Which badges do you want to transfer?", tokenOptions(owner.Tokens))
	ids := make([]transfer.TokenID, 0, len(picks))
	for _, i := range picks {
		ids = append(ids, transfer.TokenID(owner.Tokens[i].TokenID))
	}
	if len(ids) == 0 {
		s.CancelSelection()
		return nil
	}
	return s.SelectTokens(ids...)
}

func explainTransfer(u ui.UI, n int) {
	if n == 1 {
		u.Info("Transferring 1 POAP takes a single transaction.")
		return
	}
	u.Info("Transferring %d POAPs takes 2 transactions: the first one approves the transfer contract to move your POAPs, the second one transfers them.", n)
	u.Info("The approval is only asked the first time.")
}

func waitForRefresh(cmd *cobra.Command, p *progress) {
	stop := appUI.Spinner("Updating your badges...")
	defer stop()
	select {
	case <-p.refreshed:
	case <-time.After(config.Global.ReconciliationDelay + refreshWait):
	case <-cmd.Context().Done():
	}
}

func init() {
	transferCmd.Flags().StringSliceVar(&transferIDs, "ids", nil, "Token ids to transfer, comma separated")
	transferCmd.Flags().BoolVar(&transferAll, "all", false, "Transfer every badge of the owner")
	transferCmd.Flags().StringVarP(&transferTo, "to", "t", "", "Recipient address or ENS name, asked when empty")
	transferCmd.Flags().BoolVarP(&transferYes, "yes", "y", false, "Don't ask for confirmation")
	AddSignerFlags(transferCmd)
	rootCmd.AddCommand(transferCmd)
}
