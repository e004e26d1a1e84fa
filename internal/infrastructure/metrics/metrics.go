package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the core operation metrics. It implements
// usecase.MetricsRecorder.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationAmount   *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobank_operations_total",
				Help: "Total core operations by outcome and error kind",
			},
			[]string{"operation", "outcome", "kind"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_operation_duration_seconds",
				Help:    "Duration of core operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobank_operation_amount",
				Help:    "Amounts moved by successful operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),
	}
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(operation string, amount decimal.Decimal, duration time.Duration, err error) {
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())

	switch {
	case err == nil:
		m.Operations.WithLabelValues(operation, OutcomeSuccess, "").Inc()
		m.OperationAmount.WithLabelValues(operation).Observe(amount.InexactFloat64())
	case domain.IsDomainError(err):
		m.Operations.WithLabelValues(operation, OutcomeRejected, string(domain.KindOf(err))).Inc()
	default:
		m.Operations.WithLabelValues(operation, OutcomeFailed, string(domain.KindInfrastructure)).Inc()
	}
}
