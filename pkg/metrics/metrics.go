// Package metrics exposes Prometheus metrics for the resume analysis pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_analyzer"

// Outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeUnsupported = "unsupported_format"
	OutcomeExtraction  = "extraction_failure"
	OutcomeValidation  = "validation_failure"
	OutcomeError       = "error"
)

// Manager owns every collector of the service. A nil *Manager is valid and
// records nothing, so the pipeline can run without metrics.
type Manager struct {
	registry *prometheus.Registry

	analyses            *prometheus.CounterVec
	extractionFailures  *prometheus.CounterVec
	degradedScores      *prometheus.CounterVec
	persistenceFailures prometheus.Counter
	archiveFailures     prometheus.Counter
	matchScore          prometheus.Histogram
	atsScore            prometheus.Histogram
	pipelineDuration    *prometheus.HistogramVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	scoreBuckets := prometheus.LinearBuckets(0, 10, 11)

	return &Manager{
		registry: reg,
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Pipeline runs by operation and outcome.",
		}, []string{"operation", "outcome"}),
		extractionFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_failures_total",
			Help:      "Documents that could not be read, by format.",
		}, []string{"format"}),
		degradedScores: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_scores_total",
			Help:      "Scorer faults that were mapped to a zero score.",
		}, []string{"scorer"}),
		persistenceFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Analyses whose record could not be saved.",
		}),
		archiveFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_failures_total",
			Help:      "Uploads that could not be archived.",
		}),
		matchScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_match_score",
			Help:      "Distribution of job match scores.",
			Buckets:   scoreBuckets,
		}),
		atsScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ats_score",
			Help:      "Distribution of ATS scores.",
			Buckets:   scoreBuckets,
		}),
		pipelineDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Wall time of a pipeline run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format for this manager's registry.
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) RecordAnalysis(operation, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(operation, outcome).Inc()
	m.pipelineDuration.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Manager) RecordExtractionFailure(format string) {
	if m == nil {
		return
	}
	m.extractionFailures.WithLabelValues(format).Inc()
}

func (m *Manager) RecordDegradedScore(scorer string) {
	if m == nil {
		return
	}
	m.degradedScores.WithLabelValues(scorer).Inc()
}

func (m *Manager) RecordPersistenceFailure() {
	if m == nil {
		return
	}
	m.persistenceFailures.Inc()
}

func (m *Manager) RecordArchiveFailure() {
	if m == nil {
		return
	}
	m.archiveFailures.Inc()
}

// ObserveScores records the two headline scores of a finished analysis.
func (m *Manager) ObserveScores(matchScore, atsScore float64) {
	if m == nil {
		return
	}
	m.matchScore.Observe(matchScore)
	m.atsScore.Observe(atsScore)
}

func (m *Manager) RecordHTTPRequest(route, method, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(took.Seconds())
}
