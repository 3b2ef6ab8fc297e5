// SPDX-License-Identifier: MIT

package domain

// Tensions summarises how well a candidate fits the immediate experience.
// Novelty, continuity and energy are signed in [-1,1]; conflict in [0,1]
// measures how contradictory the signed tensions are.
type Tensions struct {
	Novelty    float64 `json:"novelty"`
	Continuity float64 `json:"continuity"`
	Energy     float64 `json:"energy"`
	Conflict   float64 `json:"conflict"`
}

// ComputeConflict derives the conflict degree from the three signed tensions:
// min(positive count, negative count) / 3. It is nonzero exactly when the
// signed tensions include both a strictly positive and a strictly negative
// component.
func ComputeConflict(novelty, continuity, energy float64) float64 {
	pos, neg := 0, 0
	for _, t := range [3]float64{novelty, continuity, energy} {
		switch {
		case t > 0:
			pos++
		case t < 0:
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0
	}
	if pos < neg {
		return float64(pos) / 3
	}
	return float64(neg) / 3
}

// WAxisDetails carries the second-stage "experience coherence" enrichment of
// a candidate: the causal scalar returned by the reasoning service (or its
// rule fallback), the rule tensions, and the region bookkeeping they were
// derived from.
type WAxisDetails struct {
	CCausal    float64  `json:"c_causal"` // [0,1]
	Tensions   Tensions `json:"tensions"`
	Region     string   `json:"region"`
	VisitCount int      `json:"visit_count"`
}
