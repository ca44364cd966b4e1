// Package laddermetrics records ladder service metrics in Prometheus.
package laddermetrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LadderMetrics is the metrics surface used by the ladder service and repository.
type LadderMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
	RecordLockWait(ctx context.Context, attempts int, waited time.Duration, acquired bool)
	RecordRoundClosed(ctx context.Context, playedGroups, skippedGroups int)
}

type prometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	lockWait  *prometheus.HistogramVec
	closed    *prometheus.CounterVec
}

// NewPrometheus registers the ladder collectors on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) LadderMetrics {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ladder", Name: "operation_attempts_total",
			Help: "Service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ladder", Name: "operation_success_total",
			Help: "Service operations that finished without an infrastructure error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ladder", Name: "operation_failures_total",
			Help: "Service operations that failed or panicked.",
		}, []string{"operation", "service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ladder", Name: "operation_duration_seconds",
			Help:    "Service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		lockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "ladder", Name: "round_lock_wait_seconds",
			Help:    "Time spent acquiring the round advisory lock.",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"acquired"}),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ladder", Name: "groups_closed_total",
			Help: "Groups processed by round closings.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration, m.lockWait, m.closed)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *prometheusMetrics) RecordLockWait(_ context.Context, _ int, waited time.Duration, acquired bool) {
	m.lockWait.WithLabelValues(strconv.FormatBool(acquired)).Observe(waited.Seconds())
}

func (m *prometheusMetrics) RecordRoundClosed(_ context.Context, played, skipped int) {
	m.closed.WithLabelValues("played").Add(float64(played))
	m.closed.WithLabelValues("skipped").Add(float64(skipped))
}

// NoOp discards everything.
type NoOp struct{}

func (NoOp) RecordOperationAttempt(context.Context, string, string)                {}
func (NoOp) RecordOperationSuccess(context.Context, string, string)                {}
func (NoOp) RecordOperationFailure(context.Context, string, string)                {}
func (NoOp) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOp) RecordLockWait(context.Context, int, time.Duration, bool)              {}
func (NoOp) RecordRoundClosed(context.Context, int, int)                           {}
