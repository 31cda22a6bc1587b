package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the client.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	unauthorized    prometheus.Counter
	storeActions    *prometheus.CounterVec
}

// Snapshot is a point-in-time summary of the client counters.
type Snapshot struct {
	Requests       float64 `json:"requests"`
	Failures       float64 `json:"failures"`
	Unauthorized   float64 `json:"unauthorized"`
	StoreSuccesses float64 `json:"store_successes"`
	StoreErrors    float64 `json:"store_errors"`
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// client metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sarathi_client_request_duration_seconds",
				Help:    "Duration of backend calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarathi_client_requests_total",
				Help: "Total backend calls by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		unauthorized: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sarathi_client_unauthorized_total",
				Help: "Responses that cleared the stored credentials.",
			},
		),
		storeActions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarathi_store_actions_total",
				Help: "State container actions by store, action and outcome.",
			},
			[]string{"store", "action", "outcome"},
		),
	}
}

// RecordRequest records the duration and outcome of a backend call.
// status is "success", "client_error", "server_error" or "network_error".
func (m *Metrics) RecordRequest(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(operation, status).Inc()
}

// IncrUnauthorized counts a credential wipe after a 401.
func (m *Metrics) IncrUnauthorized() {
	if m == nil {
		return
	}
	m.unauthorized.Inc()
}

// RecordStoreAction counts a finished container action.
func (m *Metrics) RecordStoreAction(store, action string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.storeActions.WithLabelValues(store, action, outcome).Inc()
}

// GetSnapshot sums the counters across all label values.
func (m *Metrics) GetSnapshot() Snapshot {
	var s Snapshot
	for _, mf := range m.gather() {
		switch mf.GetName() {
		case "sarathi_client_requests_total":
			for _, metric := range mf.GetMetric() {
				v := metric.GetCounter().GetValue()
				s.Requests += v
				if labelValue(metric, "status") != "success" {
					s.Failures += v
				}
			}
		case "sarathi_client_unauthorized_total":
			for _, metric := range mf.GetMetric() {
				s.Unauthorized += metric.GetCounter().GetValue()
			}
		case "sarathi_store_actions_total":
			for _, metric := range mf.GetMetric() {
				v := metric.GetCounter().GetValue()
				if labelValue(metric, "outcome") == "success" {
					s.StoreSuccesses += v
				} else {
					s.StoreErrors += v
				}
			}
		}
	}
	return s
}

func (m *Metrics) gather() []*dto.MetricFamily {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil
	}
	return families
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
