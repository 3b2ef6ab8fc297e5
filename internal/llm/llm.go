// SPDX-License-Identifier: MIT

// Package llm wraps the external reasoning and explanation services. The
// pipeline only ever sees a parsed scalar or a short text; failures of any
// kind (timeout, transport, unparsable output) collapse to an absent value so
// callers fall back to rule-only behaviour.
package llm

import "context"

// Reasoner rates a decision prompt with a scalar in [0,1]. ok is false when
// the value is absent (outage, timeout, unparsable response).
type Reasoner interface {
	Rate(ctx context.Context, prompt string) (float64, bool)
}

// Explainer generates a short conversational rationale. ok is false when the
// service produced nothing usable.
type Explainer interface {
	Generate(ctx context.Context, prompt string) (string, bool)
}

// Disabled is the zero-traffic client: every call is absent. The pipeline
// must function usefully with it installed.
type Disabled struct{}

func (Disabled) Rate(context.Context, string) (float64, bool)    { return 0, false }
func (Disabled) Generate(context.Context, string) (string, bool) { return "", false }
