package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const poapABI = `[
  {"type":"function","name":"safeTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"setApprovalForAll","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"approved","type":"bool"}],"outputs":[]},
  {"type":"function","name":"isApprovedForAll","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

// DefaultPoapAddress is where the POAP token contract lives on both
// mainnet and Gnosis.
var DefaultPoapAddress = common.HexToAddress("0x22C1f6050E56d2876009903609a2cC3fEf83B415")

var poapContractABI = mustParseABI(poapABI)

// Poap is the ERC-721 badge contract.
type Poap struct {
	address common.Address
	caller  Caller
}

func NewPoap(address common.Address, caller Caller) *Poap {
	return &Poap{address: address, caller: caller}
}

func (p *Poap) Address() common.Address {
	return p.address
}

func (p *Poap) SafeTransferFrom(from, to common.Address, tokenID *big.Int) (Call, error) {
	return pack(poapContractABI, p.address, "safeTransferFrom", from, to, tokenID)
}

func (p *Poap) SetApprovalForAll(operator common.Address, approved bool) (Call, error) {
	return pack(poapContractABI, p.address, "setApprovalForAll", operator, approved)
}

func (p *Poap) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	var approved bool
	err := p.read(ctx, &approved, "isApprovedForAll", owner, operator)
	return approved, err
}

func (p *Poap) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	var owner common.Address
	err := p.read(ctx, &owner, "ownerOf", tokenID)
	return owner, err
}

func (p *Poap) read(ctx context.Context, out interface{}, method string, args ...interface{}) error {
	call, err := pack(poapContractABI, p.address, method, args...)
	if err != nil {
		return err
	}
	data, err := p.caller.CallContract(ctx, call.Msg(common.Address{}))
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	if err := poapContractABI.UnpackIntoInterface(out, method, data); err != nil {
		return fmt.Errorf("unpacking %s: %w", method, err)
	}
	return nil
}
