// SPDX-License-Identifier: MIT

package pipeline

import (
	"sort"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/geo"
)

// SemanticScore summarises the rule tensions as one signed scalar,
// clamped to [-1,1].
func SemanticScore(t domain.Tensions) float64 {
	return geo.Clamp(0.5+0.3*t.Novelty+0.2*t.Continuity+0.1*t.Energy, -1, 1)
}

// Compose applies the experience-coherence perturbation to every candidate:
// final = clamp(base + delta·semantic + epsilon·causal, 0, 1). With delta
// and epsilon capped at 0.2 the perturbation magnitude stays below 0.5.
func Compose(cfg config.ScoringConfig, opts []*domain.CandidateOption) {
	for _, o := range opts {
		fwc := cfg.Delta*SemanticScore(o.WAxis.Tensions) + cfg.Epsilon*o.WAxis.CCausal
		o.FinalScore = geo.Clamp(o.BaseScore+fwc, 0, 1)
	}
}

// Rank sorts candidates by final score descending and assigns 1-based ranks.
// The tie-break chain — higher novelty tension, shorter minimum edge time,
// POI id — makes the order total and deterministic.
func Rank(opts []*domain.CandidateOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		a, b := opts[i], opts[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		an, bn := a.WAxis.Tensions.Novelty, b.WAxis.Tensions.Novelty
		if an != bn {
			return an > bn
		}
		at := domain.MinTimeEdge(a.Edges).TimeHours
		bt := domain.MinTimeEdge(b.Edges).TimeHours
		if at != bt {
			return at < bt
		}
		return a.POI.ID < b.POI.ID
	})
	for i, o := range opts {
		o.Rank = i + 1
	}
}
