// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"

	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/geo"
)

// Risk thresholds. Budget in currency units, time in hours.
const (
	budgetCritical = 50.0
	budgetWarning  = 100.0
	hoursCritical  = 0.5
	hoursWarning   = 1.0
	returnBuffer   = 0.5
)

// AnnotateRisk attaches a risk level to each candidate based on what
// selecting it would do to the session's budget, remaining time and return
// constraint. Annotation is metadata only and never reorders results.
func AnnotateRisk(s *domain.Session, opts []*domain.CandidateOption) {
	for _, o := range opts {
		o.RiskLevel, o.RiskDetails = riskOf(s, o)
	}
}

func riskOf(s *domain.Session, o *domain.CandidateOption) (domain.RiskLevel, *domain.RiskDetails) {
	edge := domain.MinTimeEdge(o.Edges)
	budgetAfter := s.CurrentState.RemainingBudget - edge.Cost - o.POI.TicketPrice
	hoursAfter := s.RemainingHours() - edge.TimeHours - o.POI.AvgVisitHours

	if s.Return != nil {
		finish := s.CurrentState.ElapsedHours + edge.TimeHours + o.POI.AvgVisitHours
		returnEst := returnEstimateHours(o.POI, s.Return.Place)
		if finish+returnEst+returnBuffer > s.Return.DeadlineHours {
			return domain.RiskCritical, &domain.RiskDetails{
				Type: "return",
				Message: fmt.Sprintf("前往%s后可能赶不上%.1f点前返回%s",
					o.POI.Name, s.Return.DeadlineHours, s.Return.Place.Name),
				Details: []string{
					fmt.Sprintf("预计完成时刻 %.1fh", finish),
					fmt.Sprintf("返程预估 %.1fh + 缓冲 %.1fh", returnEst, returnBuffer),
				},
			}
		}
	}

	switch {
	case budgetAfter < budgetCritical:
		return domain.RiskCritical, &domain.RiskDetails{
			Type:    "budget",
			Message: fmt.Sprintf("选择后预算仅剩 %.0f 元", budgetAfter),
		}
	case hoursAfter < hoursCritical:
		return domain.RiskCritical, &domain.RiskDetails{
			Type:    "time",
			Message: fmt.Sprintf("选择后剩余时间仅 %.1f 小时", hoursAfter),
		}
	case budgetAfter < budgetWarning:
		return domain.RiskWarning, &domain.RiskDetails{
			Type:    "budget",
			Message: fmt.Sprintf("选择后预算剩 %.0f 元,注意控制消费", budgetAfter),
		}
	case hoursAfter < hoursWarning:
		return domain.RiskWarning, &domain.RiskDetails{
			Type:    "time",
			Message: fmt.Sprintf("选择后剩余时间不足 %.1f 小时", hoursWarning),
		}
	default:
		return domain.RiskInfo, nil
	}
}

// returnEstimateHours is a taxi-speed estimate for getting back to the
// return place.
func returnEstimateHours(from, to domain.POI) float64 {
	return geo.Haversine(from.Point(), to.Point()) * taxiDetour / taxiSpeedKmh
}
