package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/indexer"
	"github.com/Ktl-XV/poap-webapp/logger"
)

// ENSService is the part of the indexer client used for names.
type ENSService interface {
	ResolveENS(ctx context.Context, name string) (indexer.ENSResult, error)
	LookupENS(ctx context.Context, address string) (indexer.ENSResult, error)
}

type Resolver struct {
	ens ENSService
	log *zap.Logger
}

func NewResolver(ens ENSService) *Resolver {
	return &Resolver{ens: ens, log: logger.Named("identity")}
}

// Resolve classifies input. Addresses get a best effort reverse lookup,
// emails are accepted only when allowEmail is set, anything else is resolved
// as an ENS name. An unresolvable name yields Valid=false without error; an
// error means the name service could not be reached.
func (r *Resolver) Resolve(ctx context.Context, input string, allowEmail bool) (Identity, error) {
	input = strings.TrimSpace(input)
	id := Identity{Input: input}

	switch {
	case IsValidAddress(input):
		id.Kind = KindAddress
		id.Address = common.HexToAddress(input)
		id.Valid = true
		res, err := r.ens.LookupENS(ctx, id.Address.Hex())
		if err != nil {
			r.log.Debug("reverse ens lookup failed", zap.String("address", id.Address.Hex()), zap.Error(err))
		} else if res.Valid {
			id.ENS = res.ENS
		}
		return id, nil

	case allowEmail && IsValidEmail(input):
		id.Kind = KindEmail
		id.Email = input
		id.Valid = true
		return id, nil

	case input == "":
		return id, nil
	}

	res, err := r.ens.ResolveENS(ctx, input)
	if err != nil {
		return id, fmt.Errorf("resolving %s: %w", input, err)
	}
	if !res.Valid || !IsValidAddress(res.ENS) {
		return id, nil
	}
	id.Kind = KindAddress
	id.Address = common.HexToAddress(res.ENS)
	id.ENS = input
	id.Valid = true
	return id, nil
}
