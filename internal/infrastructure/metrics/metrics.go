package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsTotal tracks input records by action and terminal state
	RecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dspilot_records_total",
		Help: "Total number of input records processed, by action and terminal state",
	}, []string{"action", "state"})

	// FailuresTotal tracks failed records by error kind
	FailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dspilot_failures_total",
		Help: "Total number of failed records, by error kind",
	}, []string{"action", "kind"})

	// ConversionsTotal tracks derived DS records by digest type
	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dspilot_conversions_total",
		Help: "Total number of DS records derived, by digest type",
	}, []string{"digest_type"})

	// RegistryRequests tracks registry API calls by operation and status
	RegistryRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dspilot_registry_requests_total",
		Help: "Total number of registry API requests, by operation and HTTP status",
	}, []string{"operation", "status"})

	// RegistryDuration tracks registry round-trip time
	RegistryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dspilot_registry_request_duration_seconds",
		Help:    "Histogram of registry request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// InflightRequests tracks registry requests currently on the wire
	InflightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dspilot_registry_inflight_requests",
		Help: "Number of registry requests currently in flight",
	})
)
