package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransferMetricsRegisterOnOwnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTransferMetrics(reg)

	m.Attempts.WithLabelValues("batch").Inc()
	m.Attempts.WithLabelValues("batch").Inc()
	m.GasFallbacks.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues("batch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GasFallbacks))

	n, err := testutil.GatherAndCount(reg, "poap_transfer_attempts_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
