// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for the recommendation
// pipeline and session lifecycle.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	optionsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripstep_options_requests_total",
		Help: "Total shortlist requests by outcome (ok, empty, error)",
	}, []string{"outcome"})

	optionsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tripstep_options_duration_seconds",
		Help:    "End-to-end shortlist generation latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
	})

	stageDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripstep_stage_dropped_total",
		Help: "Candidates dropped per pipeline stage",
	}, []string{"stage"})

	stageDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripstep_stage_degraded_total",
		Help: "Pipeline runs where a stage fell back to its degraded mode",
	}, []string{"stage"})

	fanoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tripstep_llm_fanout_total",
		Help: "Per-candidate LLM fan-out outcomes (ok, fallback, timeout, error)",
	}, []string{"kind", "outcome"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tripstep_active_sessions",
		Help: "Sessions currently held in the store",
	})

	sessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripstep_sessions_expired_total",
		Help: "Sessions removed by the TTL sweeper",
	})

	selectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tripstep_selections_total",
		Help: "User selections applied to session state",
	})
)

// RecordOptionsRequest records one shortlist request with its latency.
func RecordOptionsRequest(outcome string, elapsed time.Duration) {
	optionsRequests.WithLabelValues(normalizeOutcome(outcome)).Inc()
	optionsDuration.Observe(elapsed.Seconds())
}

// RecordStageDrop counts candidates removed by a named stage.
func RecordStageDrop(stage string, n int) {
	if n <= 0 {
		return
	}
	stageDrops.WithLabelValues(stage).Add(float64(n))
}

// RecordStageDegraded counts a run where stage fell back.
func RecordStageDegraded(stage string) {
	stageDegraded.WithLabelValues(stage).Inc()
}

// RecordFanout records one per-candidate LLM call outcome. kind is
// "reasoning" or "explanation".
func RecordFanout(kind, outcome string) {
	fanoutOutcomes.WithLabelValues(kind, normalizeOutcome(outcome)).Inc()
}

// SetActiveSessions publishes the current session count.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// RecordSessionsExpired counts sweeper evictions.
func RecordSessionsExpired(n int) {
	if n > 0 {
		sessionsExpired.Add(float64(n))
	}
}

// RecordSelection counts one applied selection.
func RecordSelection() {
	selectionsTotal.Inc()
}

func normalizeOutcome(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok", "empty", "error", "fallback", "timeout":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return "unknown"
	}
}
