// Package metrics provides Prometheus instrumentation for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lectern"

// Metrics holds all Prometheus collectors for the daemon.
type Metrics struct {
	JobsSubmitted *prometheus.CounterVec
	JobsActive    prometheus.Gauge
	JobsCompleted prometheus.Counter
	JobsFailed    prometheus.Counter
	JobDuration   *prometheus.HistogramVec

	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec

	QueueDepth      prometheus.Gauge
	WorkersBusy     prometheus.Gauge
	CreditsDeducted prometheus.Counter

	EventsPublished   *prometheus.CounterVec
	EventPublishError *prometheus.CounterVec
}

// Default is the daemon-wide instance, registered on the default registry
// and exposed through the /metrics endpoint.
var Default = New(prometheus.DefaultRegisterer)

// New creates all collectors and registers them with reg. A nil registerer
// produces working but unregistered collectors, which keeps tests isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		JobsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs accepted into the registry",
		}, []string{"action"}),
		JobsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Number of jobs currently being processed",
		}),
		JobsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that reached the completed state",
		}),
		JobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_failed_total",
			Help:      "Total number of jobs that reached the error state",
		}),
		JobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "End-to-end job processing time in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 3600},
		}, []string{"action"}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Per-stage processing time in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 900},
		}, []string{"stage"}),
		StageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Total number of stage failures by severity",
		}, []string{"stage", "severity"}),

		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of jobs waiting in the dispatch queue",
		}),
		WorkersBusy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_busy",
			Help:      "Number of workers currently running a job",
		}),
		CreditsDeducted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credits_deducted_total",
			Help:      "Total number of successful credit deductions",
		}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of lifecycle events published",
		}, []string{"event_type"}),
		EventPublishError: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Total number of lifecycle event publish failures",
		}, []string{"event_type"}),
	}
}

// RecordSubmitted records a job accepted into the registry.
func (m *Metrics) RecordSubmitted(action string) {
	m.JobsSubmitted.WithLabelValues(action).Inc()
}

// RecordJobStart records a worker picking up a job.
func (m *Metrics) RecordJobStart() {
	m.JobsActive.Inc()
	m.WorkersBusy.Inc()
}

// RecordJobEnd records a job leaving a worker.
func (m *Metrics) RecordJobEnd(action string, success bool, durationSeconds float64) {
	m.JobsActive.Dec()
	m.WorkersBusy.Dec()
	m.JobDuration.WithLabelValues(action).Observe(durationSeconds)
	if success {
		m.JobsCompleted.Inc()
	} else {
		m.JobsFailed.Inc()
	}
}

// RecordStage records one completed pipeline stage.
func (m *Metrics) RecordStage(stage string, durationSeconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordStageError records a stage failure. Severity is "soft" for errors
// the pipeline absorbs and "fatal" for errors that fail the job.
func (m *Metrics) RecordStageError(stage, severity string) {
	m.StageErrors.WithLabelValues(stage, severity).Inc()
}

// SetQueueDepth reports the current dispatch queue backlog.
func (m *Metrics) SetQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// RecordCreditsDeducted records one successful deduction.
func (m *Metrics) RecordCreditsDeducted() {
	m.CreditsDeducted.Inc()
}

// RecordEventPublish records a lifecycle event publish attempt.
func (m *Metrics) RecordEventPublish(eventType string, err error) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
	if err != nil {
		m.EventPublishError.WithLabelValues(eventType).Inc()
	}
}
