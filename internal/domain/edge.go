// SPDX-License-Identifier: MIT

package domain

// TransportMode enumerates supported travel modes between POIs.
type TransportMode string

const (
	ModeWalk   TransportMode = "walk"
	ModeTaxi   TransportMode = "taxi"
	ModeBus    TransportMode = "bus"
	ModeSubway TransportMode = "subway"
)

// TransportEdge is one feasible way to travel from the current POI to a
// candidate, with its estimated distance, duration and cost. Derived at
// request time; owned by the CandidateOption that references it.
type TransportEdge struct {
	Mode       TransportMode `json:"mode"`
	DistanceKm float64       `json:"distance_km"`
	TimeHours  float64       `json:"time_hours"`
	Cost       float64       `json:"cost"`
}

// MinTimeEdge returns the edge with the shortest travel time. The slice must
// be non-empty; every CandidateOption guarantees at least one edge.
func MinTimeEdge(edges []TransportEdge) TransportEdge {
	best := edges[0]
	for _, e := range edges[1:] {
		if e.TimeHours < best.TimeHours {
			best = e
		}
	}
	return best
}
