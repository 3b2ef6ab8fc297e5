// SPDX-License-Identifier: MIT

package domain

// Verification holds the four-principle trust assessment for a candidate:
// multi-source rating consistency, review cleanliness, spatial plausibility
// and temporal plausibility.
type Verification struct {
	ConsistencyScore    float64 `json:"consistency_score"` // [0,1]
	WeightedRating      float64 `json:"weighted_rating"`   // [0,5]
	ValidReviews        int     `json:"valid_reviews"`
	FakeRate            float64 `json:"fake_rate"`      // [0,1]
	SpatialScore        float64 `json:"spatial_score"`  // [0,1]
	TemporalScore       float64 `json:"temporal_score"` // [0,1]
	PredictedCrowdLevel float64 `json:"-"`              // [0,1]
}

// OverallTrust is the equal-weighted mean of the four principle scores.
func (v Verification) OverallTrust() float64 {
	return 0.25*v.ConsistencyScore +
		0.25*(1-v.FakeRate) +
		0.25*v.SpatialScore +
		0.25*v.TemporalScore
}

// QualityScore rates how worthwhile a POI is independent of the route:
// playability, viewability, popularity and historical/cultural depth.
// All axes are in [0,1].
type QualityScore struct {
	Playability float64 `json:"playability"`
	Viewability float64 `json:"viewability"`
	Popularity  float64 `json:"popularity"`
	History     float64 `json:"history"`
	Overall     float64 `json:"overall"`
}
