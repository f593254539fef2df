// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the scoring backend:
// - per-note scoring throughput by algorithm and tier
// - degradation events (scorer fallbacks, adapter timeouts)
// - bulk scoring run outcomes and durations
// - top-notes scan behavior (batches, skips, compactions)
// - note store query performance

var (
	// Scoring Metrics
	ScoringRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total number of per-note scoring requests",
		},
		[]string{"algorithm", "tier"},
	)

	ScoringErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_errors_total",
			Help: "Total number of per-note scoring failures",
		},
		[]string{"algorithm"},
	)

	ScorerFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorer_fallbacks_total",
			Help: "Total number of degradations to a simpler scorer",
		},
		[]string{"reason"}, // "run_miss", "run_lookup_error", "adapter_timeout", "adapter_error"
	)

	// Bulk Scoring Run Metrics
	AdapterRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_runs_total",
			Help: "Total number of bulk scoring runs by outcome",
		},
		[]string{"outcome"}, // "ok", "timeout", "error", "rejected", "invalid_input"
	)

	AdapterRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adapter_run_duration_seconds",
			Help:    "Duration of bulk scoring runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	AdapterRunNotes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adapter_run_notes",
			Help: "Number of notes scored in the most recent completed run",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Top-Notes Ranker Metrics
	RankerScans = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranker_scans_total",
			Help: "Total number of top-notes ranking scans",
		},
	)

	RankerBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranker_batches_total",
			Help: "Total number of candidate batches fetched during ranking scans",
		},
	)

	RankerSkippedNotes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranker_skipped_notes_total",
			Help: "Total number of notes skipped during ranking due to scoring errors",
		},
	)

	RankerCompactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranker_compactions_total",
			Help: "Total number of accumulator compactions during ranking scans",
		},
	)

	// Note Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "note_store_query_duration_seconds",
			Help:    "Duration of note store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_store_query_errors_total",
			Help: "Total number of note store query errors",
		},
		[]string{"operation"},
	)

	NoteCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "note_count",
			Help: "System-wide note count as of the last observation",
		},
	)
)

// ObserveStoreQuery records a store query's duration and outcome.
func ObserveStoreQuery(operation string, start time.Time, err error) {
	StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(operation).Inc()
	}
}
