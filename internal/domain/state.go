// SPDX-License-Identifier: MIT

package domain

import "time"

// State is the planning state σ of a session: where the user is, how much
// time and budget remain, and what has already been visited. States are
// passed by value through the pipeline; only the session coordinator mutates
// the session's current state, and only on selection.
type State struct {
	Current           POI                `json:"current"`
	ElapsedHours      float64            `json:"elapsed_hours"`
	RemainingBudget   float64            `json:"remaining_budget"`
	VisitedIDs        map[string]bool    `json:"visited_ids"`
	RegionVisitCounts map[string]int     `json:"region_visit_counts"`
	// VisitQuality keeps the quality score of each selected POI so later
	// summaries can recall how good the visited stops were.
	VisitQuality map[string]float64 `json:"visit_quality,omitempty"`
}

// Clone returns a deep copy so pipeline stages can never alias the session's
// live maps.
func (s State) Clone() State {
	out := s
	out.VisitedIDs = make(map[string]bool, len(s.VisitedIDs))
	for k, v := range s.VisitedIDs {
		out.VisitedIDs[k] = v
	}
	out.RegionVisitCounts = make(map[string]int, len(s.RegionVisitCounts))
	for k, v := range s.RegionVisitCounts {
		out.RegionVisitCounts[k] = v
	}
	if s.VisitQuality != nil {
		out.VisitQuality = make(map[string]float64, len(s.VisitQuality))
		for k, v := range s.VisitQuality {
			out.VisitQuality[k] = v
		}
	}
	return out
}

// Visited reports whether the POI id has been selected in this session.
func (s State) Visited(id string) bool {
	return s.VisitedIDs[id]
}

// ReturnConstraint is an optional hard constraint: the user must be back at
// Place by DeadlineHours (hours since session start).
type ReturnConstraint struct {
	DeadlineHours float64 `json:"deadline_hours"`
	Place         POI     `json:"place"`
}

// Selection records one applied user choice.
type Selection struct {
	POI        POI           `json:"poi"`
	Edge       TransportEdge `json:"edge"`
	Region     string        `json:"region"`
	ChosenAt   time.Time     `json:"chosen_at"`
	CostSpent  float64       `json:"cost_spent"`
	HoursSpent float64       `json:"hours_spent"`
}

// Session is one user's progressive planning run. It lives in a process-wide
// concurrent store keyed by ID and expires after an idle TTL.
type Session struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id,omitempty"`
	City          string            `json:"city"`
	DurationHours float64           `json:"duration_hours"`
	Budget        float64           `json:"budget"`
	Weather       string            `json:"weather"`
	Profile       UserProfile       `json:"profile"`
	Return        *ReturnConstraint `json:"return,omitempty"`

	InitialState State       `json:"initial_state"`
	CurrentState State       `json:"current_state"`
	History      []Selection `json:"history"`

	// LastOptions is the most recent shortlist, kept so a selection can
	// refer to it by index or id. Never persisted.
	LastOptions []*CandidateOption `json:"-"`

	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// RemainingHours is the planning time still available.
func (s *Session) RemainingHours() float64 {
	return s.DurationHours - s.CurrentState.ElapsedHours
}
