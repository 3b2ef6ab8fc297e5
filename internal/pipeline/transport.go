// SPDX-License-Identifier: MIT

package pipeline

import (
	"math"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/geo"
)

// HourOfDay derives the trip clock from elapsed session time.
func HourOfDay(startHour int, elapsedHours float64) float64 {
	return math.Mod(float64(startHour)+elapsedHours, 24)
}

// categoryOpenAt encodes the time-of-day windows per category: small hours
// are hotel-only, early morning favors breakfast and early attractions, late
// evening keeps food, lodging and nightlife.
func categoryOpenAt(c domain.Category, hour float64) bool {
	switch {
	case hour < 6:
		return c == domain.CategoryHotel
	case hour < 9:
		return c == domain.CategoryRestaurant || c == domain.CategoryAttraction || c == domain.CategoryHotel
	case hour >= 21:
		return c == domain.CategoryRestaurant || c == domain.CategoryHotel || c == domain.CategoryEntertainment
	default:
		return true
	}
}

// Feasible reports whether p survives the hard feasibility constraints, and
// if not, which constraint dropped it.
func Feasible(cfg config.PipelineConfig, s *domain.Session, p domain.POI) (bool, string) {
	if s.CurrentState.Visited(p.ID) {
		return false, "visited"
	}
	if geo.Haversine(s.CurrentState.Current.Point(), p.Point()) > cfg.MaxDistanceKm {
		return false, "distance"
	}
	if cfg.TemporalFilterEnabled() {
		hour := HourOfDay(cfg.StartHour, s.CurrentState.ElapsedHours)
		if !categoryOpenAt(p.Category, hour) {
			return false, "time_of_day"
		}
	}
	if s.RemainingHours() < p.AvgVisitHours+1 {
		return false, "insufficient_time"
	}
	return true, ""
}

// Transport speed/cost heuristics. Distances are haversine scaled by a
// per-mode detour factor.
const (
	walkSpeedKmh   = 4.0
	taxiSpeedKmh   = 30.0
	busSpeedKmh    = 15.0
	subwaySpeedKmh = 35.0

	taxiDetour   = 1.3
	busDetour    = 1.4
	subwayDetour = 1.2

	busWaitHours       = 0.3
	subwayAccessHours  = 0.25
	taxiFlagFall       = 13.0
	taxiPerKm          = 2.5
	busFlatFare        = 2.0
	subwayBaseFare     = 2.0
	subwayFareCap      = 8.0
	subwayFarePerTenKm = 1.0
)

// EnumerateEdges produces the feasible transport edges from `from` to `to`,
// in a fixed mode order. An empty result drops the candidate.
func EnumerateEdges(from, to domain.POI) []domain.TransportEdge {
	direct := geo.Haversine(from.Point(), to.Point())
	var edges []domain.TransportEdge

	if direct < 2 {
		edges = append(edges, domain.TransportEdge{
			Mode:       domain.ModeWalk,
			DistanceKm: direct,
			TimeHours:  direct / walkSpeedKmh,
			Cost:       0,
		})
	}

	taxiDist := direct * taxiDetour
	edges = append(edges, domain.TransportEdge{
		Mode:       domain.ModeTaxi,
		DistanceKm: taxiDist,
		TimeHours:  taxiDist / taxiSpeedKmh,
		Cost:       taxiFlagFall + taxiPerKm*taxiDist,
	})

	if direct >= 1 && direct < 20 {
		busDist := direct * busDetour
		edges = append(edges, domain.TransportEdge{
			Mode:       domain.ModeBus,
			DistanceKm: busDist,
			TimeHours:  busDist/busSpeedKmh + busWaitHours,
			Cost:       busFlatFare,
		})
	}

	if direct >= 3 && direct < 30 {
		subwayDist := direct * subwayDetour
		edges = append(edges, domain.TransportEdge{
			Mode:       domain.ModeSubway,
			DistanceKm: subwayDist,
			TimeHours:  subwayDist/subwaySpeedKmh + subwayAccessHours,
			Cost:       math.Min(subwayFareCap, subwayBaseFare+subwayDist*subwayFarePerTenKm/10),
		})
	}
	return edges
}
