// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/llm"
	"github.com/tripstep/tripstep/internal/metrics"
)

// ExplainCandidates fills the Explanation of every candidate in the ranked
// shortlist. Generative outputs come from a bounded fan-out identical in
// shape to the reasoning stage; every failure falls back to the rule
// templates, which are deterministic given input. Returns true when any
// candidate fell back.
func ExplainCandidates(ctx context.Context, explainer llm.Explainer, s *domain.Session,
	opts []*domain.CandidateOption, hour float64, workers int) (degraded bool) {

	if len(opts) == 0 {
		return false
	}

	texts := make([]string, len(opts))
	present := make([]bool, len(opts))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range opts {
		g.Go(func() error {
			prompt := explainPrompt(s, opts, i, hour)
			text, ok := explainer.Generate(gctx, prompt)
			if ok {
				texts[i] = text
				present[i] = true
				completed.Add(1)
				metrics.RecordFanout("explanation", "ok")
			} else {
				metrics.RecordFanout("explanation", "fallback")
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil && int(completed.Load())*2 < len(opts) {
		for i := range present {
			present[i] = false
		}
	}

	for i, o := range opts {
		if present[i] {
			o.Explanation = texts[i]
		} else {
			o.Explanation = RuleExplanation(s, opts, i, hour)
			degraded = true
		}
	}
	return degraded
}

// explainPrompt builds the rank-aware generation prompt. The rank-1 prompt
// for a saturated region carries the shortlist alternatives so the model can
// cross-reference them; rank 2 is asked to appeal against rank 1.
func explainPrompt(s *domain.Session, opts []*domain.CandidateOption, idx int, hour float64) string {
	o := opts[idx]
	var b strings.Builder
	fmt.Fprintf(&b, "你是旅行助手。当前在%s,现在%d点左右,天气%s。", s.CurrentState.Current.Name, int(hour), s.Weather)
	fmt.Fprintf(&b, "候选地点:%s(%s,区域%s,本次已去过该区域%d次)。",
		o.POI.Name, o.POI.Category, o.Region(), o.VisitCount())

	switch {
	case o.Rank == 1 && o.VisitCount() >= 2:
		fmt.Fprintf(&b, "该区域已经去过多次。请质疑这个推荐,并提出一个更少去过的备选:")
		if alt := lessVisitedAlternative(opts, idx); alt != nil {
			fmt.Fprintf(&b, "例如%s(区域%s)。", alt.POI.Name, alt.Region())
		}
		b.WriteString("用一两句话,必须带疑问。")
	case o.Rank == 2:
		first := opts[0]
		fmt.Fprintf(&b, "它排在第2位,第1位是%s。请强调第1名缺少的东西(新鲜感、距离或休息),为第2名说话,一两句话。",
			first.POI.Name)
	default:
		fmt.Fprintf(&b, "冲突度%.2f。", o.WAxis.Tensions.Conflict)
		if o.WAxis.Tensions.Conflict > 1.0/3 {
			b.WriteString("理由必须包含\"虽然…但…\"式的让步。")
		} else {
			b.WriteString("语气可以试探,但不要用\"绝对完美\"之类的断言。")
		}
		b.WriteString("用一两句口语化的话推荐它。")
	}
	return b.String()
}

// lessVisitedAlternative returns the shortlist entry with the lowest region
// visit count strictly below idx's, preferring earlier rank. Nil when none.
func lessVisitedAlternative(opts []*domain.CandidateOption, idx int) *domain.CandidateOption {
	v := opts[idx].VisitCount()
	var best *domain.CandidateOption
	for i, o := range opts {
		if i == idx {
			continue
		}
		if o.VisitCount() < v && (best == nil || o.VisitCount() < best.VisitCount()) {
			best = opts[i]
		}
	}
	return best
}

var counterTemplates = []string{
	"%s那边已经去过%d次了,要不要换换口味,去%s的%s看看?",
	"又是%s?%s的%s其实也很有味道,要不要考虑一下?",
	"%s去了%d次了,这次试试%s的%s怎么样?",
}

var counterNoAltTemplates = []string{
	"%s已经去过%d次了,确定还要再去吗?",
	"又是%s?要不要干脆换个完全不同的方向?",
}

var appealTemplates = []string{
	"相比第一名的%s,%s更新鲜一些,要不要给它一个机会?",
	"%s看着热门,但%s离得更近也更省力,不试试吗?",
}

var revisitTemplates = []string{
	"再去一次%s也不错,%s上次可能还没逛透。",
	"%s这片已经比较熟了,这次去%s算是轻车熟路。",
	"%s去得不少了,%s就当是收个尾吧。",
}

// RuleExplanation is the deterministic fallback rationale for opts[idx],
// keyed by rank, region visit count, category, time-of-day and transport
// mode. Same input, same sentence.
func RuleExplanation(s *domain.Session, opts []*domain.CandidateOption, idx int, hour float64) string {
	o := opts[idx]
	v := o.VisitCount()

	if o.Rank == 1 && v >= 2 {
		return counterSuggestion(opts, idx)
	}
	if o.Rank == 2 && len(opts) > 1 {
		first := opts[0]
		pick := pickTemplate(o, len(appealTemplates))
		if pick == 0 {
			return fmt.Sprintf(appealTemplates[0], first.POI.Name, o.POI.Name)
		}
		return fmt.Sprintf(appealTemplates[1], first.POI.Name, o.POI.Name)
	}
	return normalRationale(s, o, hour)
}

func counterSuggestion(opts []*domain.CandidateOption, idx int) string {
	o := opts[idx]
	v := o.VisitCount()
	alt := lessVisitedAlternative(opts, idx)
	if alt == nil {
		pick := pickTemplate(o, len(counterNoAltTemplates))
		if pick == 0 {
			return fmt.Sprintf(counterNoAltTemplates[0], o.Region(), v)
		}
		return fmt.Sprintf(counterNoAltTemplates[1], o.Region())
	}
	switch pickTemplate(o, len(counterTemplates)) {
	case 0:
		return fmt.Sprintf(counterTemplates[0], o.Region(), v, alt.Region(), alt.POI.Name)
	case 1:
		return fmt.Sprintf(counterTemplates[1], o.Region(), alt.Region(), alt.POI.Name)
	default:
		return fmt.Sprintf(counterTemplates[2], o.Region(), v, alt.Region(), alt.POI.Name)
	}
}

func normalRationale(s *domain.Session, o *domain.CandidateOption, hour float64) string {
	t := o.WAxis.Tensions
	v := o.VisitCount()

	// high conflict requires a concessive clause
	if t.Conflict > 1.0/3 {
		if t.Novelty < 0 {
			return fmt.Sprintf("虽然%s这片最近去过,但%s本身还是值得一看的。", o.Region(), o.POI.Name)
		}
		if t.Energy < 0 {
			return fmt.Sprintf("虽然这个点人可能有些累了,但%s不算费体力,可以慢慢逛。", o.POI.Name)
		}
		return fmt.Sprintf("虽然和刚才的节奏有点不一样,但%s或许正好能换换心情。", o.POI.Name)
	}

	switch {
	case o.POI.Category == domain.CategoryRestaurant && isMealHour(hour):
		return fmt.Sprintf("正好到饭点了,去%s吃一顿吧。", o.POI.Name)
	case isRainy(s.Weather) && isIndoor(o.POI):
		return fmt.Sprintf("外面在下雨,%s在室内,正合适。", o.POI.Name)
	case IsFamousLandmark(o.POI):
		return fmt.Sprintf("%s算是本地的招牌,路过不去有点可惜。", o.POI.Name)
	case hasMode(o.Edges, domain.ModeWalk):
		return fmt.Sprintf("%s就在附近,走过去就行,顺路看看。", o.POI.Name)
	case domain.MinTimeEdge(o.Edges).TimeHours < 0.3:
		return fmt.Sprintf("%s不远,打个车十来分钟就到。", o.POI.Name)
	case v >= 1:
		return fmt.Sprintf(revisitTemplates[min(v-1, 2)], o.Region(), o.POI.Name)
	default:
		return fmt.Sprintf("换个地方透透气,去%s逛逛。", o.Region())
	}
}

// pickTemplate selects a template deterministically from the candidate
// identity, never from unseeded randomness.
func pickTemplate(o *domain.CandidateOption, n int) int {
	h := fnv.New32a()
	h.Write([]byte(o.POI.ID))
	fmt.Fprintf(h, "/%d", o.Rank)
	return int(h.Sum32() % uint32(n))
}

func hasMode(edges []domain.TransportEdge, m domain.TransportMode) bool {
	for _, e := range edges {
		if e.Mode == m {
			return true
		}
	}
	return false
}

func isRainy(weather string) bool {
	return strings.Contains(weather, "雨") || strings.Contains(strings.ToLower(weather), "rain")
}

// isIndoor approximates whether a visit is sheltered.
func isIndoor(p domain.POI) bool {
	switch p.Category {
	case domain.CategoryRestaurant, domain.CategoryShopping,
		domain.CategoryEntertainment, domain.CategoryHotel:
		return true
	}
	return strings.Contains(p.Name, "馆")
}
