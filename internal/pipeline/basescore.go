// SPDX-License-Identifier: MIT

package pipeline

import (
	"math"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/geo"
)

// purposeTags maps a category to the purpose tags it can satisfy.
var purposeTags = map[domain.Category][]string{
	domain.CategoryAttraction:    {"culture", "leisure", "adventure", "photography", "nature"},
	domain.CategoryRestaurant:    {"leisure", "food"},
	domain.CategoryHotel:         {"rest"},
	domain.CategoryShopping:      {"shopping", "leisure"},
	domain.CategoryEntertainment: {"leisure", "adventure"},
}

// paceOf maps a category to the pace it suits.
func paceOf(c domain.Category) string {
	switch c {
	case domain.CategoryAttraction, domain.CategoryRestaurant:
		return "slow"
	case domain.CategoryEntertainment:
		return "fast"
	default:
		return "medium"
	}
}

// intensityBand buckets a POI by how demanding its visit is.
func intensityBand(avgVisitHours float64) string {
	switch {
	case avgVisitHours < 1:
		return "very_low"
	case avgVisitHours < 2:
		return "low"
	case avgVisitHours < 3:
		return "medium"
	case avgVisitHours < 4:
		return "high"
	default:
		return "very_high"
	}
}

// foodMatchStub is the fixed food-preference contribution for restaurants
// until a cuisine model exists.
const foodMatchStub = 0.7

// MatchScore rates how well a candidate fits the user profile: the mean of
// the purpose, pace, intensity and (for restaurants) food components that
// apply. No components means a neutral 0.5.
func MatchScore(profile domain.UserProfile, p domain.POI) float64 {
	var parts []float64

	if tags := purposeTags[p.Category]; len(tags) > 0 {
		best := 0.0
		for _, tag := range tags {
			if w := profile.Purpose[tag]; w > best {
				best = w
			}
		}
		parts = append(parts, best)
	}

	if w, ok := profile.Pace[paceOf(p.Category)]; ok {
		parts = append(parts, w)
	}

	band := intensityBand(p.AvgVisitHours)
	w, ok := profile.Intensity[band]
	if !ok {
		// collapse the outer bands when the profile only carries the
		// three-level map
		switch band {
		case "very_low":
			w, ok = profile.Intensity["low"]
		case "very_high":
			w, ok = profile.Intensity["high"]
		}
	}
	if ok {
		parts = append(parts, w)
	}

	if p.Category == domain.CategoryRestaurant && len(profile.FoodPreference) > 0 {
		parts = append(parts, foodMatchStub)
	}

	if len(parts) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, v := range parts {
		sum += v
	}
	return sum / float64(len(parts))
}

// BaseScore computes the base field score for one candidate: the configured
// weighted sum over match, trust, quality, efficiency, novelty and crowd
// avoidance, clamped to [0,1].
func BaseScore(cfg config.ScoringConfig, s *domain.Session, o *domain.CandidateOption) float64 {
	match := o.MatchScore
	trust := o.Verification.OverallTrust()
	quality := o.Quality.Overall
	efficiency := math.Exp(-domain.MinTimeEdge(o.Edges).TimeHours / 2)

	novelty := 1.0
	if s.CurrentState.Visited(o.POI.ID) {
		novelty = 0
	}
	crowd := 1 - o.Verification.PredictedCrowdLevel

	score := cfg.Match*match +
		cfg.Trust*trust +
		cfg.Quality*quality +
		cfg.Efficiency*efficiency +
		cfg.Novelty*novelty +
		cfg.Crowd*crowd
	return geo.Clamp(score, 0, 1)
}
