// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOutcome(t *testing.T) {
	assert.Equal(t, "ok", normalizeOutcome(" OK "))
	assert.Equal(t, "empty", normalizeOutcome("empty"))
	assert.Equal(t, "unknown", normalizeOutcome("banana"))
}

func TestCountersAccumulate(t *testing.T) {
	before := testutil.ToFloat64(stageDrops.WithLabelValues("quality"))
	RecordStageDrop("quality", 3)
	RecordStageDrop("quality", 0) // no-op
	after := testutil.ToFloat64(stageDrops.WithLabelValues("quality"))
	assert.Equal(t, before+3, after)

	fb := testutil.ToFloat64(fanoutOutcomes.WithLabelValues("reasoning", "fallback"))
	RecordFanout("reasoning", "fallback")
	assert.Equal(t, fb+1, testutil.ToFloat64(fanoutOutcomes.WithLabelValues("reasoning", "fallback")))

	RecordOptionsRequest("ok", 120*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(optionsRequests.WithLabelValues("ok")), 1.0)
}

// The fan-out counter must expose normalized label pairs, not raw caller
// input, so dashboards can rely on a closed label set.
func TestFanoutLabelsNormalized(t *testing.T) {
	RecordFanout("explanation", " OK ")
	RecordFanout("explanation", "weird-outcome")

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var fam *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "tripstep_llm_fanout_total" {
			fam = f
			break
		}
	}
	require.NotNil(t, fam)

	seen := map[string]float64{}
	for _, m := range fam.GetMetric() {
		labels := map[string]string{}
		for _, lp := range m.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["kind"] == "explanation" {
			seen[labels["outcome"]] = m.GetCounter().GetValue()
		}
	}
	assert.GreaterOrEqual(t, seen["ok"], 1.0)
	assert.GreaterOrEqual(t, seen["unknown"], 1.0)
	assert.NotContains(t, seen, "weird-outcome")
	assert.NotContains(t, seen, " OK ")
}

func TestActiveSessionsGauge(t *testing.T) {
	SetActiveSessions(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(activeSessions))
	SetActiveSessions(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(activeSessions))
}
