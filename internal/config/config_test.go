// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Pipeline.TemporalFilterEnabled())
	assert.True(t, cfg.Quality.QualityFilterEnabled())
	assert.Equal(t, 200, cfg.Pipeline.PoolSize)
	assert.Equal(t, 10, cfg.Pipeline.TopK)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
}

func TestParseOverridesDefaults(t *testing.T) {
	raw := []byte(`
pipeline:
  topK: 3
  maxDistanceKm: 25
quality:
  enabled: false
scoring:
  delta: 0.05
  epsilon: 0.15
`)
	cfg := Default()
	require.NoError(t, Parse(raw, &cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Pipeline.TopK)
	assert.Equal(t, 25.0, cfg.Pipeline.MaxDistanceKm)
	assert.False(t, cfg.Quality.QualityFilterEnabled())
	assert.Equal(t, 0.05, cfg.Scoring.Delta)
	// untouched defaults survive
	assert.Equal(t, 200, cfg.Pipeline.PoolSize)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	raw := []byte(`
pipeline:
  topk: 3
`)
	cfg := Default()
	err := Parse(raw, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"weights off", func(c *Config) { c.Scoring.Match = 0.5 }},
		{"delta out of range", func(c *Config) { c.Scoring.Delta = 0.3 }},
		{"epsilon negative", func(c *Config) { c.Scoring.Epsilon = -0.1 }},
		{"zero pool", func(c *Config) { c.Pipeline.PoolSize = 0 }},
		{"zero topK", func(c *Config) { c.Pipeline.TopK = 0 }},
		{"bad start hour", func(c *Config) { c.Pipeline.StartHour = 24 }},
		{"zero workers", func(c *Config) { c.LLM.FanoutWorkers = 0 }},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
