// SPDX-License-Identifier: MIT

// Package profile derives a UserProfile from free-text user input. Extraction
// is keyword based over NFKC-normalized text so full-width punctuation and
// compatibility forms cannot hide a match.
package profile

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tripstep/tripstep/internal/domain"
)

// purposeKeywords maps input substrings to a purpose tag and weight.
var purposeKeywords = []struct {
	tokens []string
	tag    string
	weight float64
}{
	{[]string{"文化", "历史"}, "culture", 0.9},
	{[]string{"美食"}, "food", 0.9},
	{[]string{"自然", "风景"}, "nature", 0.9},
	{[]string{"休闲"}, "leisure", 0.8},
	{[]string{"购物"}, "shopping", 0.8},
	{[]string{"冒险", "刺激"}, "adventure", 0.7},
}

// Extract builds the session profile from the user's free-text input.
// Empty or unmatched input yields the documented defaults.
func Extract(input string) domain.UserProfile {
	text := norm.NFKC.String(strings.TrimSpace(input))

	p := domain.UserProfile{
		Purpose:    map[string]float64{},
		Pace:       map[string]float64{"slow": 0.6, "medium": 0.3, "fast": 0.1},
		Intensity:  map[string]float64{"low": 0.3, "medium": 0.5, "high": 0.2},
		BudgetTier: domain.BudgetMedium,
		AvoidCrowd: 0.5,
	}

	for _, kw := range purposeKeywords {
		for _, tok := range kw.tokens {
			if strings.Contains(text, tok) {
				p.Purpose[kw.tag] = kw.weight
				break
			}
		}
	}
	if len(p.Purpose) == 0 {
		p.Purpose["leisure"] = 0.6
		p.Purpose["culture"] = 0.5
	}

	switch {
	case strings.Contains(text, "慢"):
		p.Pace = map[string]float64{"slow": 0.8, "medium": 0.2}
	case strings.Contains(text, "快"), strings.Contains(text, "紧凑"):
		p.Pace = map[string]float64{"fast": 0.7, "medium": 0.3}
	}

	switch {
	case strings.Contains(text, "穷游"), strings.Contains(text, "省钱"):
		p.BudgetTier = domain.BudgetLow
	case strings.Contains(text, "豪华"), strings.Contains(text, "高端"):
		p.BudgetTier = domain.BudgetLuxury
	case strings.Contains(text, "舒适"):
		p.BudgetTier = domain.BudgetHigh
	}

	if strings.Contains(text, "人少") || strings.Contains(text, "清净") {
		p.AvoidCrowd = 0.8
	}

	if p.Purpose["food"] > 0 {
		p.FoodPreference = map[string]float64{"local": 0.8}
	}
	return p
}
