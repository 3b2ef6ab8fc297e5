// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/geo"
	"github.com/tripstep/tripstep/internal/llm"
	"github.com/tripstep/tripstep/internal/metrics"
)

// RuleCausal is the deterministic fallback for a missing reasoning scalar,
// derived from the rule tensions alone.
func RuleCausal(t domain.Tensions) float64 {
	return geo.Clamp(0.5+0.3*t.Novelty+0.2*t.Continuity+0.1*t.Energy, 0.1, 0.95)
}

// reasoningPrompt states the decision for the reasoning service and asks for
// a single scalar.
func reasoningPrompt(s *domain.Session, o *domain.CandidateOption, hour float64) string {
	return fmt.Sprintf(
		"当前位置:%s。候选目的地:%s(%s),所在区域:%s,本次行程已去过该区域%d次。"+
			"现在是%d点左右,天气%s。请评估现在前往该地点的合理性,只回答一个0到1之间的小数。",
		s.CurrentState.Current.Name, o.POI.Name, o.POI.Category, o.Region(),
		o.VisitCount(), int(hour), s.Weather)
}

// RateCandidates runs the bounded reasoning fan-out. One request per
// candidate, at most workers in flight, results rejoined by original index.
// Missing values take the rule fallback. If the context is cancelled before
// a strict majority (≥50%) of candidates completed, all received values are
// discarded and the whole stage is rule-only; the returned degraded flag is
// true whenever any candidate fell back.
func RateCandidates(ctx context.Context, reasoner llm.Reasoner, s *domain.Session,
	opts []*domain.CandidateOption, hour float64, workers int) (degraded bool) {

	if len(opts) == 0 {
		return false
	}

	scores := make([]float64, len(opts))
	present := make([]bool, len(opts))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, o := range opts {
		g.Go(func() error {
			prompt := reasoningPrompt(s, o, hour)
			v, ok := reasoner.Rate(gctx, prompt)
			if ok {
				scores[i] = geo.Clamp(v, 0, 1)
				present[i] = true
				completed.Add(1)
				metrics.RecordFanout("reasoning", "ok")
			} else {
				metrics.RecordFanout("reasoning", "fallback")
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	// cancelled mid-flight without a majority: discard partial results
	if ctx.Err() != nil && int(completed.Load())*2 < len(opts) {
		for i := range present {
			present[i] = false
		}
	}

	for i, o := range opts {
		w := o.WAxis
		if present[i] {
			w.CCausal = scores[i]
		} else {
			w.CCausal = RuleCausal(w.Tensions)
			degraded = true
		}
	}
	return degraded
}
