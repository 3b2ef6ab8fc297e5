// SPDX-License-Identifier: MIT

package pipeline

import (
	"math"
	"strings"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/geo"
)

// historyNameTokens are culturally loaded name fragments that mark a POI as
// historically significant.
var historyNameTokens = []string{
	"园", "寺", "庙", "塔", "古", "故居", "博物馆", "纪念馆",
	"遗址", "文化", "历史", "传统", "老街", "古镇",
}

// historyAddressTokens mark old-town addresses.
var historyAddressTokens = []string{"老城", "古城", "历史街区"}

var playabilityByCategory = map[domain.Category]float64{
	domain.CategoryAttraction:    0.4,
	domain.CategoryEntertainment: 0.35,
	domain.CategoryShopping:      0.3,
	domain.CategoryRestaurant:    0.2,
	domain.CategoryHotel:         0.1,
	domain.CategoryTransportHub:  0,
}

var viewabilityByCategory = map[domain.Category]float64{
	domain.CategoryAttraction:    0.5,
	domain.CategoryEntertainment: 0.35,
	domain.CategoryShopping:      0.3,
	domain.CategoryRestaurant:    0.25,
	domain.CategoryHotel:         0.15,
	domain.CategoryTransportHub:  0.1,
}

// ScoreQuality rates a POI on the four quality axes. Each axis clamps to
// [0,1]; the overall is their fixed-weight combination.
func ScoreQuality(p domain.POI, v domain.Verification) domain.QualityScore {
	play := playabilityByCategory[p.Category]
	switch {
	case p.AvgVisitHours >= 3:
		play += 0.5
	case p.AvgVisitHours >= 1.5:
		play += 0.3
	case p.AvgVisitHours >= 0.5:
		play += 0.15
	default:
		play += 0.05
	}

	view := viewabilityByCategory[p.Category]
	switch {
	case v.WeightedRating >= 4.8:
		view += 0.2
	case v.WeightedRating >= 4.5:
		view += 0.15
	case v.WeightedRating >= 4.0:
		view += 0.1
	}

	pop := 0.0
	if v.ValidReviews > 0 {
		pop = math.Min(math.Log10(float64(v.ValidReviews))/4, 0.4)
	}
	switch {
	case v.WeightedRating >= 4.5:
		pop += 0.3
	case v.WeightedRating >= 4.0:
		pop += 0.2
	default:
		pop += 0.1
	}
	// single rating source in this build
	pop += 0.2

	hist := 0.0
	for _, tok := range historyNameTokens {
		if strings.Contains(p.Name, tok) {
			hist += 0.4
			break
		}
	}
	for _, tok := range historyAddressTokens {
		if strings.Contains(p.Address, tok) {
			hist += 0.2
			break
		}
	}
	if p.TicketPrice > 0 {
		hist += 0.2
	}

	q := domain.QualityScore{
		Playability: geo.Clamp(play, 0, 1),
		Viewability: geo.Clamp(view, 0, 1),
		Popularity:  geo.Clamp(pop, 0, 1),
		History:     geo.Clamp(hist, 0, 1),
	}
	q.Overall = 0.30*q.Playability + 0.25*q.Viewability + 0.25*q.Popularity + 0.20*q.History
	return q
}

// PassesQuality applies the quality thresholds. When the filter is disabled
// every candidate passes.
func PassesQuality(cfg config.QualityConfig, v domain.Verification, q domain.QualityScore) bool {
	if !cfg.QualityFilterEnabled() {
		return true
	}
	if v.ValidReviews < cfg.MinReviews {
		return false
	}
	if v.WeightedRating < cfg.MinRating {
		return false
	}
	if q.Playability < cfg.MinPlayability {
		return false
	}
	return q.Overall >= cfg.MinOverall
}
