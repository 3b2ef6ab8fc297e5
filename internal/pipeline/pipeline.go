// SPDX-License-Identifier: MIT

// Package pipeline turns a session state plus a candidate pool into a
// scored, explained, ranked shortlist. Stages either reduce/annotate the
// candidate list or short-circuit to an empty result; an empty shortlist is
// a valid outcome, not an error. When a stage's external data is missing it
// substitutes a documented default and continues — candidates are only
// dropped for hard constraint violations.
package pipeline

import (
	"context"

	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/domain"
	"github.com/tripstep/tripstep/internal/llm"
	"github.com/tripstep/tripstep/internal/log"
	"github.com/tripstep/tripstep/internal/metrics"
	"github.com/tripstep/tripstep/internal/poi"
)

// Verifier is an optional external verification source. When absent the
// pipeline uses its deterministic in-core assessment and notes the
// degradation.
type Verifier interface {
	Verify(ctx context.Context, s *domain.Session, p domain.POI, hour float64) (domain.Verification, error)
}

// Result is one shortlist plus its degradation notes. EmptyReason is set
// only when Options is empty.
type Result struct {
	Options     []*domain.CandidateOption `json:"options"`
	Degraded    []domain.DegradedStage    `json:"degraded,omitempty"`
	EmptyReason domain.EmptyReason        `json:"empty_reason,omitempty"`
}

// Pipeline wires the stages to their collaborators. Construct once, share
// across requests; all per-request state lives on the stack.
type Pipeline struct {
	Store     poi.Store
	Reasoner  llm.Reasoner
	Explainer llm.Explainer
	Verifier  Verifier // nil means in-core fallback
	Cfg       config.Config
}

// New builds a pipeline over the given collaborators.
func New(store poi.Store, reasoner llm.Reasoner, explainer llm.Explainer, cfg config.Config) *Pipeline {
	return &Pipeline{Store: store, Reasoner: reasoner, Explainer: explainer, Cfg: cfg}
}

// Options runs the full pipeline for one session and returns at most k
// candidates. Read-only with respect to the session.
func (pl *Pipeline) Options(ctx context.Context, s *domain.Session, k int) (*Result, error) {
	if k <= 0 || k > pl.Cfg.Pipeline.TopK {
		k = pl.Cfg.Pipeline.TopK
	}
	logger := log.WithComponentFromContext(ctx, "pipeline")
	res := &Result{}
	hour := HourOfDay(pl.Cfg.Pipeline.StartHour, s.CurrentState.ElapsedHours)

	// fetch
	pool, err := pl.Store.ListInCity(ctx, s.City, pl.Cfg.Pipeline.PoolSize)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		res.EmptyReason = domain.EmptyNoPOIs
		return res, nil
	}

	// feasibility
	var feasible []domain.POI
	timeDrops := 0
	for _, p := range pool {
		ok, reason := Feasible(pl.Cfg.Pipeline, s, p)
		if !ok {
			if reason == "insufficient_time" {
				timeDrops++
			}
			continue
		}
		feasible = append(feasible, p)
	}
	metrics.RecordStageDrop("feasibility", len(pool)-len(feasible))
	if len(feasible) == 0 {
		if timeDrops > 0 {
			res.EmptyReason = domain.EmptyInsufficientTime
		} else {
			res.EmptyReason = domain.EmptyAllFiltered
		}
		logger.Debug().Int(log.FieldCandidates, len(pool)).
			Str(log.FieldOutcome, string(res.EmptyReason)).Msg("no feasible candidates")
		return res, nil
	}

	// transport
	var opts []*domain.CandidateOption
	for _, p := range feasible {
		edges := EnumerateEdges(s.CurrentState.Current, p)
		if len(edges) == 0 {
			continue
		}
		opts = append(opts, &domain.CandidateOption{POI: p, Edges: edges})
	}
	metrics.RecordStageDrop("transport", len(feasible)-len(opts))
	if len(opts) == 0 {
		res.EmptyReason = domain.EmptyAllFiltered
		return res, nil
	}

	// verification
	verifyDegraded := pl.Verifier == nil
	for _, o := range opts {
		if pl.Verifier != nil {
			v, err := pl.Verifier.Verify(ctx, s, o.POI, hour)
			if err == nil {
				o.Verification = v
				continue
			}
			verifyDegraded = true
		}
		o.Verification = Verify(s, o.POI, hour)
	}
	if verifyDegraded {
		res.Degraded = append(res.Degraded, domain.DegradedVerification)
		metrics.RecordStageDegraded(string(domain.DegradedVerification))
	}

	// quality
	if !pl.Cfg.Quality.QualityFilterEnabled() {
		res.Degraded = append(res.Degraded, domain.DegradedQualityOff)
	}
	kept := opts[:0]
	for _, o := range opts {
		o.Quality = ScoreQuality(o.POI, o.Verification)
		if PassesQuality(pl.Cfg.Quality, o.Verification, o.Quality) {
			kept = append(kept, o)
		}
	}
	metrics.RecordStageDrop("quality", len(opts)-len(kept))
	opts = kept
	if len(opts) == 0 {
		res.EmptyReason = domain.EmptyAllFiltered
		return res, nil
	}

	// base field
	for _, o := range opts {
		o.MatchScore = MatchScore(s.Profile, o.POI)
		o.BaseScore = BaseScore(pl.Cfg.Scoring, s, o)
	}

	// experience-coherence enrichment
	for _, o := range opts {
		region := RegionOf(o.POI)
		o.WAxis = &domain.WAxisDetails{
			Tensions:   RuleTensions(s, o.POI, region, hour),
			Region:     region,
			VisitCount: s.CurrentState.RegionVisitCounts[region],
		}
	}
	if RateCandidates(ctx, pl.Reasoner, s, opts, hour, pl.Cfg.LLM.FanoutWorkers) {
		res.Degraded = append(res.Degraded, domain.DegradedReasoning)
		metrics.RecordStageDegraded(string(domain.DegradedReasoning))
	}
	Compose(pl.Cfg.Scoring, opts)

	// rank, cut, annotate, explain
	Rank(opts)
	if len(opts) > k {
		opts = opts[:k]
	}
	AnnotateRisk(s, opts)
	if ExplainCandidates(ctx, pl.Explainer, s, opts, hour, pl.Cfg.LLM.FanoutWorkers) {
		res.Degraded = append(res.Degraded, domain.DegradedExplanation)
		metrics.RecordStageDegraded(string(domain.DegradedExplanation))
	}

	res.Options = opts
	logger.Debug().Int(log.FieldCandidates, len(pool)).
		Int("returned", len(opts)).Msg("shortlist ready")
	return res, nil
}
