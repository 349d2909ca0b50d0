package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ktl-XV/poap-webapp/common"
)

type scriptedReader struct {
	mu       sync.Mutex
	statuses []common.TxStatus
	calls    int
}

func (s *scriptedReader) TxInfoFromHash(ctx context.Context, tx string) (common.TxInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.statuses[len(s.statuses)-1]
	if s.calls < len(s.statuses) {
		st = s.statuses[s.calls]
	}
	s.calls++
	info := common.TxInfo{Status: st}
	if st.Mined() {
		info.Receipt = &types.Receipt{Status: types.ReceiptStatusSuccessful}
		if st == common.TxStatusReverted {
			info.Receipt.Status = types.ReceiptStatusFailed
		}
	}
	return info, nil
}

func fastMonitor(r TxInfoReader) *TxMonitor {
	return NewGenericTxMonitor(r).WithTiming(time.Millisecond, 50*time.Millisecond)
}

func TestWaitsThroughPendingUntilDone(t *testing.T) {
	r := &scriptedReader{statuses: []common.TxStatus{
		common.TxStatusNotFound, common.TxStatusError, common.TxStatusPending, common.TxStatusDone,
	}}
	info, ok := fastMonitor(r).BlockingWait(context.Background(), "0x01")
	require.True(t, ok)
	assert.Equal(t, common.TxStatusDone, info.Status)
	assert.Equal(t, types.ReceiptStatusSuccessful, info.Receipt.Status)
}

func TestReportsReverted(t *testing.T) {
	r := &scriptedReader{statuses: []common.TxStatus{common.TxStatusReverted}}
	info, ok := fastMonitor(r).BlockingWait(context.Background(), "0x01")
	require.True(t, ok)
	assert.Equal(t, common.TxStatusReverted, info.Status)
}

func TestLostWhenNeverSeen(t *testing.T) {
	r := &scriptedReader{statuses: []common.TxStatus{common.TxStatusNotFound}}
	info, ok := fastMonitor(r).BlockingWait(context.Background(), "0x01")
	require.True(t, ok)
	assert.Equal(t, common.TxStatusLost, info.Status)
}

func TestLostWhenDroppedAfterPending(t *testing.T) {
	r := &scriptedReader{statuses: []common.TxStatus{common.TxStatusPending, common.TxStatusNotFound}}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	info, ok := fastMonitor(r).BlockingWait(ctx, "0x01")
	require.True(t, ok, "a tx dropped from the mempool must end as lost")
	assert.Equal(t, common.TxStatusLost, info.Status)
}

func TestPendingResetsLostClock(t *testing.T) {
	statuses := []common.TxStatus{}
	// missing for most of lostAfter, back in a mempool, then mined
	for i := 0; i < 30; i++ {
		statuses = append(statuses, common.TxStatusNotFound)
	}
	statuses = append(statuses, common.TxStatusPending)
	for i := 0; i < 30; i++ {
		statuses = append(statuses, common.TxStatusNotFound)
	}
	statuses = append(statuses, common.TxStatusDone)
	r := &scriptedReader{statuses: statuses}
	m := NewGenericTxMonitor(r).WithTiming(time.Millisecond, time.Second)

	info, ok := m.BlockingWait(context.Background(), "0x01")
	require.True(t, ok)
	assert.Equal(t, common.TxStatusDone, info.Status)
}

func TestContextCancelClosesChannel(t *testing.T) {
	r := &scriptedReader{statuses: []common.TxStatus{common.TxStatusPending}}
	ctx, cancel := context.WithCancel(context.Background())
	ch := fastMonitor(r).MakeWaitChannel(ctx, "0x01")
	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
