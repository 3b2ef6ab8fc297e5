// SPDX-License-Identifier: MIT

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeConflict(t *testing.T) {
	tests := []struct {
		name                        string
		novelty, continuity, energy float64
		want                        float64
	}{
		{"all positive", 0.8, 0.3, 0.6, 0},
		{"all negative", -0.3, -0.4, -0.5, 0},
		{"one negative", 0.8, 0.3, -0.5, 1.0 / 3},
		{"two negative", 0.8, -0.4, -0.5, 1.0 / 3},
		{"zeros are neutral", 0, 0, 0.5, 0},
		{"zero plus mixed", 0, 0.3, -0.2, 1.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeConflict(tt.novelty, tt.continuity, tt.energy)
			assert.InDelta(t, tt.want, got, 1e-9)

			// conflict > 0 iff both a strictly positive and a strictly
			// negative tension exist
			hasPos := tt.novelty > 0 || tt.continuity > 0 || tt.energy > 0
			hasNeg := tt.novelty < 0 || tt.continuity < 0 || tt.energy < 0
			assert.Equal(t, hasPos && hasNeg, got > 0)
		})
	}
}

func TestOverallTrust(t *testing.T) {
	v := Verification{
		ConsistencyScore: 0.8,
		FakeRate:         0.2,
		SpatialScore:     0.6,
		TemporalScore:    0.6,
	}
	assert.InDelta(t, 0.7, v.OverallTrust(), 1e-9)
}

func TestMinTimeEdge(t *testing.T) {
	edges := []TransportEdge{
		{Mode: ModeTaxi, TimeHours: 0.4},
		{Mode: ModeWalk, TimeHours: 0.25},
		{Mode: ModeBus, TimeHours: 0.9},
	}
	assert.Equal(t, ModeWalk, MinTimeEdge(edges).Mode)
}

func TestStateClone(t *testing.T) {
	s := State{
		VisitedIDs:        map[string]bool{"a": true},
		RegionVisitCounts: map[string]int{"姑苏": 1},
	}
	c := s.Clone()
	c.VisitedIDs["b"] = true
	c.RegionVisitCounts["姑苏"] = 9

	assert.False(t, s.Visited("b"))
	assert.Equal(t, 1, s.RegionVisitCounts["姑苏"])
}
