// Package metrics holds the Prometheus collectors recorded by the lifecycle
// manager, the schema manager and the ETL pipeline, and the HTTP handler
// exposing them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const prometheusMetricNamespace = "dwh"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder records warehouse operations. A nil *Recorder records nothing.
type Recorder struct {
	pollChecksCounter  *prometheus.CounterVec
	statementsCounter  *prometheus.CounterVec
	stepDurationHisto  *prometheus.HistogramVec
	controlPlaneErrors *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	return &Recorder{
		pollChecksCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "cluster_status_checks_total",
				Help:      "Cluster status checks made while waiting for a terminal state.",
			},
			[]string{"operation", "status"},
		),
		statementsCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "statements_total",
				Help:      "SQL statements executed against the warehouse.",
			},
			[]string{"step", "table", "result"},
		),
		stepDurationHisto: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of a lifecycle or pipeline step.",
				Buckets:   []float64{1, 10, 60, 300, 900, 1800},
			},
			[]string{"step", "result"},
		),
		controlPlaneErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: prometheusMetricNamespace,
				Name:      "control_plane_errors_total",
				Help:      "Failed AWS control-plane calls by classified outcome.",
			},
			[]string{"call", "outcome"},
		),
	}
}

// Register registers every collector with reg.
func (r *Recorder) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		r.pollChecksCounter,
		r.statementsCounter,
		r.stepDurationHisto,
		r.controlPlaneErrors,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) ObservePollCheck(operation, status string) {
	if r == nil {
		return
	}
	r.pollChecksCounter.WithLabelValues(operation, status).Inc()
}

func (r *Recorder) ObserveStatement(step, table string, err error) {
	if r == nil {
		return
	}
	r.statementsCounter.WithLabelValues(step, table, result(err)).Inc()
}

func (r *Recorder) ObserveControlPlaneError(call, outcome string) {
	if r == nil {
		return
	}
	r.controlPlaneErrors.WithLabelValues(call, outcome).Inc()
}

// ObserveStep records the time elapsed since start for step.
func (r *Recorder) ObserveStep(step string, start time.Time, err error) {
	if r == nil {
		return
	}
	r.stepDurationHisto.WithLabelValues(step, result(err)).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
