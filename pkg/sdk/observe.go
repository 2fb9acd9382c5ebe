package cmsconsole

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// target names what an operation touched. Empty parts are left out of logs
// and reported as "-" in metric labels.
type target struct {
	organization string
	project      string
	collection   string
}

func (t target) attrs() []any {
	var out []any
	if t.organization != "" {
		out = append(out, "organization", t.organization)
	}
	if t.project != "" {
		out = append(out, "project", t.project)
	}
	if t.collection != "" {
		out = append(out, "collection", t.collection)
	}
	return out
}

func labelOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// outcome classifies err for the operations counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidSchema), errors.Is(err, ErrUnknownFieldType):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUploadFailed):
		return "upload_failed"
	case errors.Is(err, ErrLoadFailed):
		return "load_failed"
	case errors.Is(err, ErrBackendUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	changes    *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmsconsole",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK operations by project and outcome.",
		}, []string{"operation", "project", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cmsconsole",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cmsconsole",
			Subsystem: "sdk",
			Name:      "schema_changes_applied_total",
			Help:      "Field operations submitted by Apply.",
		}, []string{"project", "collection", "change"}),
	}
	for _, c := range []**prometheus.CounterVec{&m.operations, &m.changes} {
		if err := registerOrReuse(reg, c); err != nil {
			return nil, err
		}
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points it at the collector already
// registered under the same name so several clients can share a registry.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("cmsconsole: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("cmsconsole: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts SDK operations. A nil observer does nothing.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, t target, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	res := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, labelOrDash(t.project), res).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}
	args := append([]any{"op", op, "duration", dur, "outcome", res}, t.attrs()...)
	if err != nil {
		o.logger.Warn("operation failed", append(args, "error", err)...)
		return
	}
	o.logger.Debug("operation completed", args...)
}

// applied counts the operations of a submitted change-set.
func (o *observer) applied(t target, cs ChangeSet) {
	if o == nil || o.metrics == nil || cs.IsEmpty() {
		return
	}
	project, collection := labelOrDash(t.project), labelOrDash(t.collection)
	o.metrics.changes.WithLabelValues(project, collection, "create").Add(float64(len(cs.ToCreate)))
	o.metrics.changes.WithLabelValues(project, collection, "update").Add(float64(len(cs.ToUpdate)))
	o.metrics.changes.WithLabelValues(project, collection, "delete").Add(float64(len(cs.ToDelete)))
}
