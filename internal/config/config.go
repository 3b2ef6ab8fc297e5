// SPDX-License-Identifier: MIT

// Package config provides typed configuration for the itinerary daemon.
// Configuration is loaded from YAML with strict key checking: unknown keys
// reject at load time.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full daemon configuration.
type Config struct {
	LogLevel string `yaml:"logLevel,omitempty"`

	API      APIConfig      `yaml:"api"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Quality  QualityConfig  `yaml:"quality"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	LLM      LLMConfig      `yaml:"llm"`
	Session  SessionConfig  `yaml:"session"`
	POI      POIConfig      `yaml:"poi"`
}

// APIConfig holds HTTP facade settings.
type APIConfig struct {
	ListenAddr       string        `yaml:"listenAddr,omitempty"`
	RequestDeadline  time.Duration `yaml:"requestDeadline,omitempty"`
	RateLimitPerMin  int           `yaml:"rateLimitPerMin,omitempty"`
	RateLimitEnabled bool          `yaml:"rateLimitEnabled,omitempty"`
}

// PipelineConfig bounds the candidate pipeline.
type PipelineConfig struct {
	PoolSize       int     `yaml:"poolSize,omitempty"`       // candidate fetch cap
	MaxDistanceKm  float64 `yaml:"maxDistanceKm,omitempty"`  // feasibility radius
	TemporalFilter *bool   `yaml:"temporalFilter,omitempty"` // time-of-day category windows
	TopK           int     `yaml:"topK,omitempty"`
	StartHour      int     `yaml:"startHour,omitempty"` // trip clock origin, hour of day
}

// QualityConfig gates the quality filter.
type QualityConfig struct {
	Enabled        *bool   `yaml:"enabled,omitempty"`
	MinReviews     int     `yaml:"minReviews,omitempty"`
	MinRating      float64 `yaml:"minRating,omitempty"`
	MinPlayability float64 `yaml:"minPlayability,omitempty"`
	MinOverall     float64 `yaml:"minOverall,omitempty"`
}

// ScoringConfig holds the base score weights and the experience-axis
// composition weights.
type ScoringConfig struct {
	Match      float64 `yaml:"match,omitempty"`
	Trust      float64 `yaml:"trust,omitempty"`
	Quality    float64 `yaml:"quality,omitempty"`
	Efficiency float64 `yaml:"efficiency,omitempty"`
	Novelty    float64 `yaml:"novelty,omitempty"`
	Crowd      float64 `yaml:"crowd,omitempty"`

	Delta   float64 `yaml:"delta,omitempty"`   // semantic weight, [0,0.2]
	Epsilon float64 `yaml:"epsilon,omitempty"` // causal weight, [0,0.2]
}

// LLMConfig configures the reasoning and explanation fan-outs.
type LLMConfig struct {
	Enabled       bool          `yaml:"enabled,omitempty"`
	Model         string        `yaml:"model,omitempty"`
	APIKeyEnv     string        `yaml:"apiKeyEnv,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	FanoutWorkers int           `yaml:"fanoutWorkers,omitempty"`
	RatePerSecond float64       `yaml:"ratePerSecond,omitempty"`
}

// SessionConfig controls session lifetime and snapshots.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl,omitempty"`
	SweepInterval time.Duration `yaml:"sweepInterval,omitempty"`
	SnapshotDir   string        `yaml:"snapshotDir,omitempty"` // empty disables snapshots
}

// POIConfig selects the POI store backend.
type POIConfig struct {
	SQLitePath string `yaml:"sqlitePath,omitempty"` // empty uses the seeded in-memory store
}

// Default returns the configuration with all documented defaults applied.
func Default() Config {
	on := true
	return Config{
		LogLevel: "info",
		API: APIConfig{
			ListenAddr:       ":8080",
			RequestDeadline:  8 * time.Second,
			RateLimitPerMin:  120,
			RateLimitEnabled: true,
		},
		Pipeline: PipelineConfig{
			PoolSize:       200,
			MaxDistanceKm:  50,
			TemporalFilter: &on,
			TopK:           10,
			StartHour:      9,
		},
		Quality: QualityConfig{
			Enabled:        &on,
			MinReviews:     50,
			MinRating:      4.0,
			MinPlayability: 0.3,
			MinOverall:     0.5,
		},
		Scoring: ScoringConfig{
			Match:      0.25,
			Trust:      0.20,
			Quality:    0.20,
			Efficiency: 0.15,
			Novelty:    0.10,
			Crowd:      0.10,
			Delta:      0.1,
			Epsilon:    0.1,
		},
		LLM: LLMConfig{
			Enabled:       false,
			Model:         "gemini-2.0-flash",
			APIKeyEnv:     "GEMINI_API_KEY",
			Timeout:       3 * time.Second,
			FanoutWorkers: 10,
			RatePerSecond: 20,
		},
		Session: SessionConfig{
			TTL:           24 * time.Hour,
			SweepInterval: time.Hour,
		},
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys reject.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(raw, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg with strict field checking.
func Parse(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks ranges and cross-field constraints.
func (c Config) Validate() error {
	if c.Pipeline.PoolSize <= 0 {
		return fmt.Errorf("pipeline.poolSize must be > 0, got %d", c.Pipeline.PoolSize)
	}
	if c.Pipeline.MaxDistanceKm <= 0 {
		return fmt.Errorf("pipeline.maxDistanceKm must be > 0, got %v", c.Pipeline.MaxDistanceKm)
	}
	if c.Pipeline.TopK <= 0 {
		return fmt.Errorf("pipeline.topK must be > 0, got %d", c.Pipeline.TopK)
	}
	if c.Pipeline.StartHour < 0 || c.Pipeline.StartHour > 23 {
		return fmt.Errorf("pipeline.startHour must be in [0,23], got %d", c.Pipeline.StartHour)
	}

	sum := c.Scoring.Match + c.Scoring.Trust + c.Scoring.Quality +
		c.Scoring.Efficiency + c.Scoring.Novelty + c.Scoring.Crowd
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	if c.Scoring.Delta < 0 || c.Scoring.Delta > 0.2 {
		return fmt.Errorf("scoring.delta must be in [0,0.2], got %v", c.Scoring.Delta)
	}
	if c.Scoring.Epsilon < 0 || c.Scoring.Epsilon > 0.2 {
		return fmt.Errorf("scoring.epsilon must be in [0,0.2], got %v", c.Scoring.Epsilon)
	}

	if c.LLM.FanoutWorkers <= 0 {
		return fmt.Errorf("llm.fanoutWorkers must be > 0, got %d", c.LLM.FanoutWorkers)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be > 0, got %v", c.LLM.Timeout)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be > 0, got %v", c.Session.TTL)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweepInterval must be > 0, got %v", c.Session.SweepInterval)
	}

	if c.API.RequestDeadline <= 0 {
		return fmt.Errorf("api.requestDeadline must be > 0, got %v", c.API.RequestDeadline)
	}
	return nil
}

// TemporalFilterEnabled resolves the optional flag with its default.
func (c PipelineConfig) TemporalFilterEnabled() bool {
	return c.TemporalFilter == nil || *c.TemporalFilter
}

// QualityFilterEnabled resolves the optional flag with its default.
func (c QualityConfig) QualityFilterEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}
