// Package metrics holds the Prometheus collectors for the guide backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rainier_guide"

var (
	// Pipeline
	QuestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "questions_total",
			Help:      "Questions answered, by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	DegradedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "degraded_total",
			Help:      "Absorbed failures by kind",
		},
		[]string{"kind"},
	)

	// Cache
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by key prefix and result (hit, miss, stale)",
		},
		[]string{"key", "result"},
	)

	// Auxiliary data (weather, alerts)
	AuxFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aux",
			Name:      "fetch_total",
			Help:      "Auxiliary data fetches by source and status",
		},
		[]string{"source", "status"},
	)

	// Ingestion
	PassagesIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "passages_total",
			Help:      "Passages embedded and stored",
		},
	)
)

// RecordQuestion counts a finished request.
func RecordQuestion(intent, outcome string) {
	QuestionsTotal.WithLabelValues(intent, outcome).Inc()
}

// ObserveStage records how long a pipeline stage took.
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func RecordDegraded(kind string) {
	DegradedTotal.WithLabelValues(kind).Inc()
}

func RecordCacheLookup(key, result string) {
	CacheLookupsTotal.WithLabelValues(key, result).Inc()
}

func RecordAuxFetch(source, status string) {
	AuxFetchTotal.WithLabelValues(source, status).Inc()
}
