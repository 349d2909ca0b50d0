package transfer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/metrics"
)

// ApprovalGate makes sure the batch contract is an approved operator for
// the owner before a batch transfer is sent.
type ApprovalGate struct {
	token    TokenContract
	operator common.Address
	gas      *GasEstimator
	sender   Sender
	log      *zap.Logger

	// OnHash is called once the approval transaction hash is known.
	OnHash func(hash string)
}

func NewApprovalGate(token TokenContract, operator common.Address, gas *GasEstimator, sender Sender, log *zap.Logger) *ApprovalGate {
	if log == nil {
		log = zap.NewNop()
	}
	return &ApprovalGate{
		token:    token,
		operator: operator,
		gas:      gas,
		sender:   sender,
		log:      log,
	}
}

// Ensure returns nil when the operator is approved, sending and waiting for
// setApprovalForAll when it isn't. Any failure wraps ErrApprovalFailed,
// except a failing approval query which wraps ErrSubmission.
func (g *ApprovalGate) Ensure(ctx context.Context, owner common.Address) error {
	approved, err := g.token.IsApprovedForAll(ctx, owner, g.operator)
	if err != nil {
		metrics.Transfers.Approvals.WithLabelValues("query_error").Inc()
		return fmt.Errorf("%w: reading approval: %w", ErrSubmission, err)
	}
	if approved {
		g.log.Debug("operator already approved", zap.String("operator", g.operator.Hex()))
		metrics.Transfers.Approvals.WithLabelValues("already_approved").Inc()
		return nil
	}

	if err := g.approve(ctx, owner); err != nil {
		metrics.Transfers.Approvals.WithLabelValues("failed").Inc()
		return err
	}
	metrics.Transfers.Approvals.WithLabelValues("approved").Inc()
	return nil
}

func (g *ApprovalGate) approve(ctx context.Context, owner common.Address) error {
	call, err := g.token.SetApprovalForAll(g.operator, true)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrApprovalFailed, err)
	}
	gas := g.gas.Estimate(ctx, owner, call)
	events, err := g.sender.Send(ctx, call, gas)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrApprovalFailed, err)
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrApprovalFailed, ctx.Err())
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return fmt.Errorf("%w: %w", ErrApprovalFailed, ctx.Err())
				}
				return fmt.Errorf("%w: no receipt", ErrApprovalFailed)
			}
			switch ev.Kind {
			case EventHash:
				g.log.Info("approval submitted", zap.String("hash", ev.Hash), zap.String("operator", g.operator.Hex()))
				if g.OnHash != nil {
					g.OnHash(ev.Hash)
				}
			case EventReceipt:
				if ev.Succeeded() {
					g.log.Info("approval confirmed", zap.String("hash", ev.Receipt.TxHash.Hex()))
					return nil
				}
				return fmt.Errorf("%w: approval reverted", ErrApprovalFailed)
			case EventError:
				return fmt.Errorf("%w: %w", ErrApprovalFailed, ev.Err)
			}
		}
	}
}
