// Package identity turns user input (address, email or ENS name) into a
// resolved owner or recipient.
package identity

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindAddress
	KindEmail
)

// MsgInvalidENS is shown when input is neither an address, an allowed email
// nor a resolvable name.
const MsgInvalidENS = "Invalid ENS name"

type Identity struct {
	Input   string
	Kind    Kind
	Address common.Address
	ENS     string
	Email   string
	Valid   bool
}

func (i Identity) IsAddress() bool { return i.Valid && i.Kind == KindAddress }
func (i Identity) IsEmail() bool   { return i.Valid && i.Kind == KindEmail }

// Key is what the indexer lists tokens by: the address or the email.
func (i Identity) Key() string {
	switch i.Kind {
	case KindAddress:
		return i.Address.Hex()
	case KindEmail:
		return i.Email
	}
	return i.Input
}

// Display renders "name.eth (0x1234...abcd)" when a name is known.
func (i Identity) Display() string {
	switch {
	case i.Kind == KindEmail:
		return i.Email
	case i.Kind == KindAddress && i.ENS != "":
		return fmt.Sprintf("%s (%s)", i.ENS, ShortAddress(i.Address.Hex()))
	case i.Kind == KindAddress:
		return i.Address.Hex()
	}
	return i.Input
}

func IsValidAddress(s string) bool {
	return common.IsHexAddress(strings.TrimSpace(s))
}

func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func ShortAddress(addr string) string {
	if len(addr) < 12 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
