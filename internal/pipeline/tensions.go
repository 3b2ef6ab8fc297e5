// SPDX-License-Identifier: MIT

package pipeline

import (
	"github.com/tripstep/tripstep/internal/domain"
)

// RuleTensions derives the rule-only tension tuple for a candidate from the
// session state and trip clock. Always computed, even when reasoning is live.
func RuleTensions(s *domain.Session, p domain.POI, region string, hour float64) domain.Tensions {
	visits := s.CurrentState.RegionVisitCounts[region]

	var novelty float64
	switch {
	case visits == 0:
		novelty = 0.8
	case visits == 1:
		novelty = -0.3
	default:
		novelty = -0.6
	}

	continuity := 0.3
	if p.Category == s.CurrentState.Current.Category {
		continuity = -0.4
	}
	if IsFamousLandmark(p) {
		continuity += 0.2
	}

	var energy float64
	switch {
	case hour < 12:
		energy = 0.6
	case hour < 16:
		energy = 0.2
	case hour < 18:
		energy = -0.2
	default:
		energy = -0.5
	}
	if p.Category == domain.CategoryRestaurant && isMealHour(hour) {
		energy += 0.4
	}

	return domain.Tensions{
		Novelty:    novelty,
		Continuity: continuity,
		Energy:     energy,
		Conflict:   domain.ComputeConflict(novelty, continuity, energy),
	}
}

// isMealHour covers lunch and dinner windows.
func isMealHour(hour float64) bool {
	return (hour >= 11 && hour <= 13) || (hour >= 17 && hour <= 19)
}
