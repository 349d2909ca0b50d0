package transfer

import (
	"context"
	"math"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/contracts"
	"github.com/Ktl-XV/poap-webapp/metrics"
)

// GasFallback is the gas limit used when estimation fails.
const GasFallback uint64 = 500000

// WithMargin adds 30% to a raw estimate, rounding down. It saturates at
// math.MaxUint64 instead of wrapping.
func WithMargin(raw uint64) uint64 {
	// floor(raw*13/10) split as raw + 3*(raw/10) + floor(3*(raw%10)/10)
	margin := 3*(raw/10) + 3*(raw%10)/10
	if raw > math.MaxUint64-margin {
		return math.MaxUint64
	}
	return raw + margin
}

type GasEstimator struct {
	chain Estimator
	log   *zap.Logger
}

func NewGasEstimator(chain Estimator, log *zap.Logger) *GasEstimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &GasEstimator{chain: chain, log: log}
}

// Estimate never fails: any simulation error is logged and GasFallback is
// returned.
func (g *GasEstimator) Estimate(ctx context.Context, from common.Address, call contracts.Call) uint64 {
	raw, err := g.chain.EstimateGas(ctx, call.Msg(from))
	if err != nil {
		g.log.Warn("error calculating gas, using fallback",
			zap.String("method", call.Method),
			zap.Uint64("fallback", GasFallback),
			zap.Error(err),
		)
		metrics.Transfers.GasFallbacks.Inc()
		return GasFallback
	}
	gas := WithMargin(raw)
	g.log.Debug("estimated gas", zap.String("method", call.Method), zap.Uint64("raw", raw), zap.Uint64("limit", gas))
	return gas
}
