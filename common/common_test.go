package common

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

func TestWeiToGwei(t *testing.T) {
	assert.Equal(t, "0", WeiToGwei(nil))
	assert.Equal(t, "1.5", WeiToGwei(big.NewInt(1_500_000_000)))
	assert.Equal(t, "20", WeiToGwei(big.NewInt(20_000_000_000)))
}

func TestBigToFloatString(t *testing.T) {
	assert.Equal(t, "0.011", BigToFloatString(big.NewInt(1100), 5))
	assert.Equal(t, "1100", BigToFloatString(big.NewInt(1100), 0))
}

func TestGasCost(t *testing.T) {
	info := TxInfo{Status: TxStatusDone}
	assert.Nil(t, info.GasCost())

	info.Receipt = &types.Receipt{GasUsed: 21000, EffectiveGasPrice: big.NewInt(2)}
	assert.Equal(t, big.NewInt(42000), info.GasCost())
}

func TestMined(t *testing.T) {
	assert.True(t, TxStatusDone.Mined())
	assert.True(t, TxStatusReverted.Mined())
	assert.False(t, TxStatusPending.Mined())
	assert.False(t, TxStatusLost.Mined())
}

func TestEachNodeCollectsFailuresByName(t *testing.T) {
	boom := errors.New("boom")
	nodes := map[string]int{"alpha": 1, "beta": 2, "gamma": 3}
	var calls atomic.Int32
	failed := EachNode(context.Background(), nodes, func(ctx context.Context, n int) error {
		calls.Add(1)
		if n == 2 {
			return nil
		}
		return boom
	})
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, failed.Failed())
	assert.ErrorIs(t, failed.Err(), boom)
	assert.Equal(t, "alpha: boom\ngamma: boom", failed.Err().Error())
	assert.NotContains(t, failed, "beta")
}

func TestEachNodeWithoutFailures(t *testing.T) {
	failed := EachNode(context.Background(), map[string]string{"a": "x"}, func(context.Context, string) error { return nil })
	assert.Zero(t, failed.Failed())
	assert.NoError(t, failed.Err())
}
