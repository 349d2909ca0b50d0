// Package metrics exposes transfer counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Ktl-XV/poap-webapp/logger"
)

// TransferMetrics groups the counters recorded by the transfer session.
type TransferMetrics struct {
	Attempts     *prometheus.CounterVec
	Outcomes     *prometheus.CounterVec
	GasFallbacks prometheus.Counter
	Approvals    *prometheus.CounterVec
	Confirmation prometheus.Histogram
}

var (
	Registry  = prometheus.NewRegistry()
	Transfers = NewTransferMetrics(Registry)
)

func NewTransferMetrics(reg prometheus.Registerer) *TransferMetrics {
	f := promauto.With(reg)
	return &TransferMetrics{
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poap_transfer_attempts_total",
			Help: "Transfer attempts by strategy",
		}, []string{"strategy"}),
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poap_transfer_outcomes_total",
			Help: "Finished transfer attempts by outcome",
		}, []string{"outcome"}),
		GasFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "poap_gas_estimate_fallbacks_total",
			Help: "Gas estimations that failed and used the fixed fallback",
		}),
		Approvals: f.NewCounterVec(prometheus.CounterOpts{
			Name: "poap_operator_approvals_total",
			Help: "Operator approval checks by result",
		}, []string{"result"}),
		Confirmation: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "poap_transfer_confirmation_seconds",
			Help:    "Time from submission to receipt",
			Buckets: []float64{5, 10, 20, 30, 60, 120, 300},
		}),
	}
}

// Serve exposes Registry on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
