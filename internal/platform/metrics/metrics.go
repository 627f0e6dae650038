package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Credential decode outcomes: ok, malformed, no_roles, expired
	CredentialOutcomes *prometheus.CounterVec

	SessionOperations *prometheus.CounterVec

	EvaluateLatency prometheus.Histogram
	OptionsReturned prometheus.Histogram

	// Snapshot lookups by result: hit, miss, error
	SnapshotLookups *prometheus.CounterVec

	RequestLatency *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics on reg. Tests pass a fresh prometheus.NewRegistry().
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CredentialOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizfilings_credential_decode_total",
			Help: "Bearer credential decode attempts by outcome",
		}, []string{"outcome"}),

		SessionOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizfilings_session_operations_total",
			Help: "Session store operations by operation and result",
		}, []string{"operation", "result"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bizfilings_filing_evaluate_duration_seconds",
			Help:    "Duration of filing option evaluation excluding snapshot fetch",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		}),

		OptionsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bizfilings_filing_options_returned",
			Help:    "Number of filing options returned per evaluation",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}),

		SnapshotLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bizfilings_snapshot_lookups_total",
			Help: "Business snapshot lookups by result",
		}, []string{"result"}),

		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bizfilings_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// IncrementCredentialOutcome records a credential decode outcome.
func (m *Metrics) IncrementCredentialOutcome(outcome string) {
	if m != nil {
		m.CredentialOutcomes.WithLabelValues(outcome).Inc()
	}
}

// IncrementSessionOperation records a session store operation.
func (m *Metrics) IncrementSessionOperation(operation, result string) {
	if m != nil {
		m.SessionOperations.WithLabelValues(operation, result).Inc()
	}
}

// ObserveEvaluation records evaluation latency and the size of the result.
func (m *Metrics) ObserveEvaluation(d time.Duration, options int) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
		m.OptionsReturned.Observe(float64(options))
	}
}

// IncrementSnapshotLookup records a snapshot lookup result.
func (m *Metrics) IncrementSnapshotLookup(result string) {
	if m != nil {
		m.SnapshotLookups.WithLabelValues(result).Inc()
	}
}

// ObserveRequest records HTTP request latency.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}
