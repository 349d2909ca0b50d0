package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/common"
	"github.com/Ktl-XV/poap-webapp/logger"
)

const (
	DefaultInterval  = 5 * time.Second
	DefaultLostAfter = 3 * time.Minute
)

// TxInfoReader is satisfied by *reader.EthReader.
type TxInfoReader interface {
	TxInfoFromHash(ctx context.Context, tx string) (common.TxInfo, error)
}

// TxMonitor polls the nodes until a transaction is mined or considered lost.
type TxMonitor struct {
	reader    TxInfoReader
	interval  time.Duration
	lostAfter time.Duration
}

func NewGenericTxMonitor(r TxInfoReader) *TxMonitor {
	return &TxMonitor{reader: r, interval: DefaultInterval, lostAfter: DefaultLostAfter}
}

// WithTiming returns a copy polling every interval and giving up on a
// transaction no node has had for lostAfter, either never seen or dropped
// from the mempools after being pending.
func (m *TxMonitor) WithTiming(interval, lostAfter time.Duration) *TxMonitor {
	return &TxMonitor{reader: m.reader, interval: interval, lostAfter: lostAfter}
}

func (m *TxMonitor) periodicCheck(ctx context.Context, tx string, info chan<- common.TxInfo) {
	defer close(info)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	// when the tx was last missing from every node, zero while a node has it
	missingSince := time.Now()
	for {
		var t time.Time
		select {
		case <-ctx.Done():
			return
		case t = <-ticker.C:
		}

		txinfo, err := m.reader.TxInfoFromHash(ctx, tx)
		switch txinfo.Status {
		case common.TxStatusError:
			logger.Debug("couldn't read tx status", zap.String("hash", tx), zap.Error(err))
			continue
		case common.TxStatusNotFound:
			if missingSince.IsZero() {
				missingSince = t
			}
			if t.Sub(missingSince) > m.lostAfter {
				info <- common.TxInfo{Status: common.TxStatusLost}
				return
			}
			continue
		case common.TxStatusPending:
			missingSince = time.Time{}
			continue
		case common.TxStatusReverted, common.TxStatusDone:
			info <- txinfo
			return
		}
	}
}

// MakeWaitChannel delivers at most one TxInfo with status done, reverted or
// lost, then closes. It closes without a value when ctx ends first.
func (m *TxMonitor) MakeWaitChannel(ctx context.Context, tx string) <-chan common.TxInfo {
	result := make(chan common.TxInfo, 1)
	go m.periodicCheck(ctx, tx, result)
	return result
}

// BlockingWait returns false when ctx ended before a final status was known.
func (m *TxMonitor) BlockingWait(ctx context.Context, tx string) (common.TxInfo, bool) {
	info, ok := <-m.MakeWaitChannel(ctx, tx)
	return info, ok
}
