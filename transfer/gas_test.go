package transfer

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Ktl-XV/poap-webapp/contracts"
	"github.com/Ktl-XV/poap-webapp/metrics"
)

func TestWithMarginFloors(t *testing.T) {
	assert.Equal(t, uint64(130000), WithMargin(100000))
	assert.Equal(t, uint64(130001), WithMargin(100001))
	assert.Equal(t, uint64(27), WithMargin(21))
	assert.Equal(t, uint64(0), WithMargin(0))
	assert.Equal(t, uint64(11), WithMargin(9))
}

func TestWithMarginNeverWraps(t *testing.T) {
	raw := uint64(math.MaxUint64 / 10)
	assert.Equal(t, raw+3*(raw/10)+3*(raw%10)/10, WithMargin(raw))
	assert.GreaterOrEqual(t, WithMargin(raw), raw)

	big := uint64(1844674407370955161)
	assert.Greater(t, WithMargin(big), big)
	assert.Equal(t, uint64(math.MaxUint64), WithMargin(math.MaxUint64/13*12))
	assert.Equal(t, uint64(math.MaxUint64), WithMargin(math.MaxUint64))
}

func TestEstimateAppliesMargin(t *testing.T) {
	chain := &fakeEstimator{raw: 84000}
	call := contracts.Call{Method: "safeTransferFrom", To: tokenAddr, Data: []byte{1}}

	gas := NewGasEstimator(chain, nil).Estimate(context.Background(), ownerAccount().Address(), call)

	assert.Equal(t, uint64(109200), gas)
	if assert.Len(t, chain.msgs, 1) {
		assert.Equal(t, ownerAccount().Address(), chain.msgs[0].From)
		assert.Equal(t, tokenAddr, *chain.msgs[0].To)
		assert.Equal(t, []byte{1}, chain.msgs[0].Data)
	}
}

func TestEstimateFallsBackOnError(t *testing.T) {
	before := testutil.ToFloat64(metrics.Transfers.GasFallbacks)
	chain := &fakeEstimator{raw: 1, err: errNode}

	gas := NewGasEstimator(chain, nil).Estimate(context.Background(), ownerAccount().Address(), contracts.Call{To: tokenAddr})

	assert.Equal(t, GasFallback, gas)
	assert.Equal(t, uint64(500000), gas)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Transfers.GasFallbacks))
}
