// SPDX-License-Identifier: MIT

package domain

// BudgetTier buckets the user's spending appetite.
type BudgetTier string

const (
	BudgetLow    BudgetTier = "low"
	BudgetMedium BudgetTier = "medium"
	BudgetHigh   BudgetTier = "high"
	BudgetLuxury BudgetTier = "luxury"
)

// UserProfile is derived once per session from the user's free-text input.
// Weight maps hold tag → [0,1] preference strengths.
type UserProfile struct {
	Purpose        map[string]float64 `json:"purpose"`
	Pace           map[string]float64 `json:"pace"`
	Intensity      map[string]float64 `json:"intensity"`
	FoodPreference map[string]float64 `json:"food_preference,omitempty"`
	BudgetTier     BudgetTier         `json:"budget_tier"`
	AvoidCrowd     float64            `json:"avoid_crowd"` // [0,1]
}
