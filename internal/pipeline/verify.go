// SPDX-License-Identifier: MIT

package pipeline

import (
	"math"

	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/geo"
)

// PredictCrowd estimates the crowd level for a category at a trip-clock hour.
// Deterministic per-category table: attractions peak mid-day, restaurants at
// meal hours, everything else idles low.
func PredictCrowd(c domain.Category, hour float64) float64 {
	switch c {
	case domain.CategoryAttraction:
		if hour >= 10 && hour <= 16 {
			return 0.7
		}
	case domain.CategoryRestaurant:
		if isMealHour(hour) {
			return 0.8
		}
	}
	return 0.3
}

// Verify populates the four-principle trust assessment for a candidate. This
// is the in-core implementation used when no external verification source is
// wired; values are deterministic given (POI, state, hour).
func Verify(s *domain.Session, p domain.POI, hour float64) domain.Verification {
	direct := geo.Haversine(s.CurrentState.Current.Point(), p.Point())

	// Spatial plausibility from the detour ratio of the estimated road
	// distance over the direct line.
	detour := 0.0
	if direct > 0 {
		actual := direct * taxiDetour
		detour = (actual - direct) / direct
	}
	spatial := 0.4*(1-math.Min(detour, 1)) + 0.3*1.0 + 0.3*0.8

	open := 0.0
	if categoryOpenAt(p.Category, hour) {
		open = 1.0
	}
	timeRatio := 1.0
	if p.AvgVisitHours > 0 {
		timeRatio = math.Min(s.RemainingHours()/p.AvgVisitHours, 1)
	}
	temporal := 0.3*open + 0.4*(1-0.4) + 0.3*timeRatio

	// unrated POIs take a neutral default; real ratings pass through so the
	// quality filter's rating threshold still bites
	weighted := p.Rating
	if weighted == 0 {
		weighted = 4.0
	}

	return domain.Verification{
		ConsistencyScore:    0.7,
		WeightedRating:      weighted,
		ValidReviews:        p.ReviewCount,
		FakeRate:            0,
		SpatialScore:        geo.Clamp(spatial, 0, 1),
		TemporalScore:       geo.Clamp(temporal, 0, 1),
		PredictedCrowdLevel: PredictCrowd(p.Category, hour),
	}
}
