package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cmsconsole"

// Console Prometheus metrics.
var (
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "File uploads by outcome",
		},
		[]string{"status"}, // "ok" / "error"
	)

	UploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes sent to the upload endpoint",
		},
	)

	SchemaChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_changes_total",
			Help:      "Field operations submitted in schema saves",
		},
		[]string{"op"}, // "create" / "update" / "delete"
	)

	SchemaSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_saves_total",
			Help:      "Schema save attempts by outcome",
		},
		[]string{"status"}, // "ok" / "noop" / "error"
	)

	EntryWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_writes_total",
			Help:      "Entry writes by action and outcome",
		},
		[]string{"action", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "CMS backend request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "status"},
	)
)

var registerOnce sync.Once

// RegisterConsoleMetrics registers the console metrics. Must be called once from main.
func RegisterConsoleMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			UploadsTotal,
			UploadBytesTotal,
			SchemaChangesTotal,
			SchemaSavesTotal,
			EntryWritesTotal,
			BackendRequestDuration,
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
		)
	})
}
