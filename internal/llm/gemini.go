// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/tripstep/tripstep/internal/log"
)

// Gemini routes Rate and Generate to the Gemini API. Calls are paced by a
// client-side rate limiter and bounded by a per-call timeout; any failure
// returns absent.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// GeminiConfig configures the client.
type GeminiConfig struct {
	APIKey        string
	Model         string
	Timeout       time.Duration
	RatePerSecond float64
}

// NewGemini builds the client. The API key is required.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 20
	}
	return &Gemini{
		client:  client,
		model:   model,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
	}, nil
}

func (g *Gemini) Rate(ctx context.Context, prompt string) (float64, bool) {
	text, ok := g.call(ctx, prompt)
	if !ok {
		return 0, false
	}
	return ParseScalar(text)
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, bool) {
	text, ok := g.call(ctx, prompt)
	if !ok {
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

func (g *Gemini) call(ctx context.Context, prompt string) (string, bool) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		logger := log.WithComponent("llm")
		logger.Debug().Err(err).Msg("gemini call failed")
		return "", false
	}
	return resp.Text(), true
}
