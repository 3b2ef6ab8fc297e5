// SPDX-License-Identifier: MIT

// Command daemon runs the itinerary recommendation service: POI store,
// scoring pipeline, session coordinator and the HTTP facade.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripstep/tripstep/internal/api"
	"github.com/tripstep/tripstep/internal/config"
	"github.com/tripstep/tripstep/internal/llm"
	"github.com/tripstep/tripstep/internal/log"
	"github.com/tripstep/tripstep/internal/pipeline"
	"github.com/tripstep/tripstep/internal/poi"
	"github.com/tripstep/tripstep/internal/session"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	logger := log.WithComponent("daemon")

	path := *configPath
	if path == "" {
		path = os.Getenv("TRIPSTEP_CONFIG")
	}
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("failed to load configuration")
		}
	} else if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid default configuration")
	}

	log.Configure(log.Config{Level: cfg.LogLevel})
	logger = log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildPOIStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open POI store")
	}

	reasoner, explainer := buildLLM(ctx, cfg, logger)
	pipe := pipeline.New(store, reasoner, explainer, cfg)

	sessions := session.NewStore(cfg.Session.TTL)
	var snapshots *session.SnapshotStore
	if cfg.Session.SnapshotDir != "" {
		snapshots, err = session.OpenSnapshots(cfg.Session.SnapshotDir, cfg.Session.TTL)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.Session.SnapshotDir).Msg("failed to open snapshot store")
		}
		defer snapshots.Close()

		restored, err := snapshots.LoadAll()
		if err != nil {
			logger.Warn().Err(err).Msg("snapshot restore failed; starting empty")
		} else {
			for _, s := range restored {
				sessions.Put(s)
			}
			if len(restored) > 0 {
				logger.Info().Int("sessions", len(restored)).Msg("sessions restored from snapshots")
			}
		}
	}
	go sessions.RunSweeper(ctx, cfg.Session.SweepInterval)

	coord := session.NewCoordinator(sessions, pipe, store, snapshots, cfg)
	srv := &http.Server{
		Addr:              cfg.API.ListenAddr,
		Handler:           api.NewServer(coord, cfg.API).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("addr", cfg.API.ListenAddr).
		Bool("llm", cfg.LLM.Enabled).
		Msg("starting tripstep")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server exiting")
}

// buildPOIStore opens the configured backend and wraps it so concurrent
// city fetches collapse into one lookup.
func buildPOIStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (poi.Store, error) {
	if cfg.POI.SQLitePath == "" {
		logger.Info().Msg("using seeded in-memory POI store")
		return poi.NewCollapsingStore(poi.NewMemoryStore(poi.SeedPOIs())), nil
	}

	db, err := poi.OpenSQLite(cfg.POI.SQLitePath)
	if err != nil {
		return nil, err
	}
	// seed on first run so an empty database still serves something
	if pois, err := db.ListInCity(ctx, "Suzhou", 1); err == nil && len(pois) == 0 {
		if err := db.Seed(ctx, poi.SeedPOIs()); err != nil {
			logger.Warn().Err(err).Msg("seeding POI database failed")
		}
	}
	logger.Info().Str("path", cfg.POI.SQLitePath).Msg("using SQLite POI store")
	return poi.NewCollapsingStore(db), nil
}

// buildLLM selects the Gemini client when enabled and keyed, falling back
// to the rule-only path otherwise.
func buildLLM(ctx context.Context, cfg config.Config, logger zerolog.Logger) (llm.Reasoner, llm.Explainer) {
	if !cfg.LLM.Enabled {
		logger.Info().Msg("LLM disabled; rule-only scoring and explanations")
		return llm.Disabled{}, llm.Disabled{}
	}
	key := os.Getenv(cfg.LLM.APIKeyEnv)
	if key == "" {
		logger.Warn().Str("env", cfg.LLM.APIKeyEnv).
			Msg("LLM enabled but API key env is empty; rule-only fallback")
		return llm.Disabled{}, llm.Disabled{}
	}
	g, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:        key,
		Model:         cfg.LLM.Model,
		Timeout:       cfg.LLM.Timeout,
		RatePerSecond: cfg.LLM.RatePerSecond,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("gemini client init failed; rule-only fallback")
		return llm.Disabled{}, llm.Disabled{}
	}
	logger.Info().Str("model", cfg.LLM.Model).Msg("gemini client ready")
	return g, g
}
