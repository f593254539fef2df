// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

/*
Package metrics provides Prometheus metrics collection for the scoring
backend.

Metrics cover per-note scoring throughput, degradation events (scorer
fallbacks, adapter timeouts, circuit breaker transitions), bulk scoring run
outcomes, top-notes scan behavior, and note store query performance. All
collectors are registered with the default registry via promauto and exposed
on the ops listener's /metrics endpoint in Prometheus text format.

Recording functions are safe for concurrent use; the Prometheus client
handles synchronization internally.

Example PromQL:

	# Scoring throughput by algorithm
	rate(scoring_requests_total[5m])

	# Degradation rate
	rate(scorer_fallbacks_total[5m])

	# Bulk run p95 duration
	histogram_quantile(0.95, rate(adapter_run_duration_seconds_bucket[5m]))
*/
package metrics
