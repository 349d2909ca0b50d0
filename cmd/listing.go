package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ktl-XV/poap-webapp/identity"
	"github.com/Ktl-XV/poap-webapp/indexer"
	"github.com/Ktl-XV/poap-webapp/transfer"
	"github.com/Ktl-XV/poap-webapp/ui"
)

const (
	msgLoadError  = "There was an error.\nCheck the address and try again"
	msgNoTokens   = "You don't seem to have any tokens. You're quite a couch potato!"
	msgListHeader = "These are the events you have attended in the past"
)

var listingHeaders = []string{"Year", "Token", "Event", "Where", "Date"}

func greeting(id identity.Identity) string {
	switch {
	case id.IsAddress() && id.ENS != "":
		return fmt.Sprintf("Hey %s! (%s)", id.ENS, identity.ShortAddress(id.Address.Hex()))
	case id.IsAddress():
		return fmt.Sprintf("Hey %s!", id.Address.Hex())
	case id.IsEmail():
		return fmt.Sprintf("Hey %s!", id.Email)
	}
	return fmt.Sprintf("Hey %s!", id.Input)
}

func where(e indexer.PoapEvent) string {
	parts := []string{}
	for _, p := range []string{e.City, e.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// yearRows renders one table group per year, newest first. A year without
// badges still gets a row.
func yearRows(tokens []indexer.TokenInfo, now time.Time) [][][]string {
	groups := [][][]string{}
	for _, g := range indexer.GroupByYear(tokens, now) {
		year := strconv.Itoa(g.Year)
		if len(g.Tokens) == 0 {
			groups = append(groups, [][]string{
				{year, "", fmt.Sprintf("You’ve been a couch potato all of %d", g.Year), "", ""},
			})
			continue
		}
		rows := [][]string{}
		for i, t := range g.Tokens {
			label := ""
			if i == 0 {
				label = year
			}
			rows = append(rows, []string{label, "#" + t.TokenID, t.Event.Name, where(t.Event), t.Event.StartDate})
		}
		groups = append(groups, rows)
	}
	return groups
}

// printOwner prints the greeting and badge listing of a loaded owner.
func printOwner(u ui.UI, owner transfer.OwnerRecord, now time.Time) {
	u.Critical("%s", greeting(owner.Identity))
	if owner.Identity.IsEmail() {
		u.Info("These badges are reserved for your email. To hold them in a wallet, claim them with:\n> poap redeem %s", owner.Identity.Email)
	}
	if len(owner.Tokens) == 0 {
		u.Info(msgNoTokens)
		return
	}
	u.Section(msgListHeader)
	u.TableWithGroups(listingHeaders, yearRows(owner.Tokens, now))
}

// tokenOptions are the choices offered when picking badges interactively.
func tokenOptions(tokens []indexer.TokenInfo) []string {
	options := make([]string, 0, len(tokens))
	for _, t := range tokens {
		options = append(options, fmt.Sprintf("#%s %s (%d)", t.TokenID, t.Event.Name, t.Event.Year))
	}
	return options
}
