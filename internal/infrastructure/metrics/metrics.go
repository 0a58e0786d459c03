package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QuoteMetrics holds the collectors for quote lookups and reconciliations.
// All methods are safe on a nil receiver so callers can run without metrics.
type QuoteMetrics struct {
	// Calls to the pricing service by endpoint (latest, daily) and outcome
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Batch runs by result (succeeded, partial, aborted)
	ReconciliationsTotal *prometheus.CounterVec
	// Per-currency results inside batches
	CurrencyOutcomesTotal *prometheus.CounterVec
	CellsWrittenTotal     prometheus.Counter

	HTTPRequestsTotal *prometheus.CounterVec
}

// NewQuoteMetrics registers every collector with reg
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	factory := promauto.With(reg)

	return &QuoteMetrics{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_api_requests_total",
				Help: "Requests sent to the pricing service",
			},
			[]string{"endpoint", "outcome"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quote_api_request_duration_seconds",
				Help:    "Latency of pricing service requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		ReconciliationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_reconciliations_total",
				Help: "Spreadsheet reconciliation runs by result",
			},
			[]string{"result"},
		),
		CurrencyOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_reconciliation_currency_outcomes_total",
				Help: "Per-currency outcomes inside reconciliation runs",
			},
			[]string{"status"},
		),
		CellsWrittenTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "quote_reconciliation_cells_written_total",
				Help: "Spreadsheet cells written with a bid",
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_http_requests_total",
				Help: "HTTP requests served by route and status code",
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *QuoteMetrics) ObserveAPIRequest(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.APIRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.APIRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *QuoteMetrics) ObserveReconciliation(result string) {
	if m == nil {
		return
	}
	m.ReconciliationsTotal.WithLabelValues(result).Inc()
}

func (m *QuoteMetrics) ObserveCurrencyOutcome(status string, cellsWritten int) {
	if m == nil {
		return
	}
	m.CurrencyOutcomesTotal.WithLabelValues(status).Inc()
	m.CellsWrittenTotal.Add(float64(cellsWritten))
}

func (m *QuoteMetrics) ObserveHTTPRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}
