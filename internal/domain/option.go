// SPDX-License-Identifier: MIT

package domain

// RiskLevel annotates a candidate with how risky selecting it would be for
// the session's remaining time, budget and hard constraints. Annotation never
// reorders results.
type RiskLevel string

const (
	RiskInfo     RiskLevel = "info"
	RiskWarning  RiskLevel = "warning"
	RiskCritical RiskLevel = "critical"
)

// RiskDetails explains a non-info risk annotation.
type RiskDetails struct {
	Type    string   `json:"type"` // "budget", "time", "return"
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// CandidateOption is one scored, explained entry of a shortlist. Owned by the
// current request; discarded unless the user selects it.
type CandidateOption struct {
	POI          POI             `json:"poi"`
	Edges        []TransportEdge `json:"edges"` // non-empty, invariant
	Verification Verification    `json:"verification"`
	Quality      QualityScore    `json:"quality"`
	BaseScore    float64         `json:"base_score"`  // [0,1], before enrichment
	FinalScore   float64         `json:"final_score"` // [0,1], after enrichment
	MatchScore   float64         `json:"match_score"`
	WAxis        *WAxisDetails   `json:"w_axis,omitempty"`
	Explanation  string          `json:"explanation,omitempty"`
	Rank         int             `json:"rank"`
	RiskLevel    RiskLevel       `json:"risk_level"`
	RiskDetails  *RiskDetails    `json:"risk_details,omitempty"`
}

// Region returns the W-axis region label, or "其他" before enrichment.
func (o *CandidateOption) Region() string {
	if o.WAxis != nil {
		return o.WAxis.Region
	}
	return "其他"
}

// VisitCount returns the region visit count captured during enrichment.
func (o *CandidateOption) VisitCount() int {
	if o.WAxis != nil {
		return o.WAxis.VisitCount
	}
	return 0
}
