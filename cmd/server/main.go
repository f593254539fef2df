// Veracite - Community Fact-Checking Platform Backend
// Copyright 2026 Veracite Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/veracite/veracite

// Command server runs the Veracite scoring backend: the DuckDB note
// store, the periodic bulk scoring-run service, and the ops listener,
// under a Suture supervision tree.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/veracite/veracite/internal/config"
	"github.com/veracite/veracite/internal/logging"
	"github.com/veracite/veracite/internal/ops"
	"github.com/veracite/veracite/internal/scoring"
	"github.com/veracite/veracite/internal/scoring/adapter"
	"github.com/veracite/veracite/internal/simulation"
	"github.com/veracite/veracite/internal/storage"
	"github.com/veracite/veracite/internal/supervisor"
)

func main() {
	simulateN := flag.Int("simulate", 0, "seed the store with N synthetic notes before serving")
	simulateSeed := flag.Int64("simulate-seed", 1, "seed for the synthetic population")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.Logging)

	store, err := storage.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open note store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close note store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *simulateN > 0 {
		gen := simulation.New(*simulateSeed, simulation.DefaultOptions())
		if err := gen.Populate(ctx, store, *simulateN); err != nil {
			logging.Fatal().Err(err).Msg("failed to seed synthetic population")
		}
		logging.Info().Int("notes", *simulateN).Int64("seed", *simulateSeed).
			Msg("synthetic population seeded")
	}

	cache, err := adapter.NewRunCache(cfg.Cache.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open run cache")
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close run cache")
		}
	}()

	clientCfg := adapter.DefaultClientConfig()
	clientCfg.Timeout = cfg.Adapter.Timeout
	client := adapter.NewClient(adapter.NewStub(), clientCfg)

	engine, err := scoring.NewEngine(&cfg.Scoring, store, store, cache, cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build scoring engine")
	}

	runner := adapter.NewRunner(store, client, cache, adapter.RunnerConfig{
		RunOnStartup: cfg.Adapter.RunOnStartup,
		RunInterval:  cfg.Adapter.RunInterval,
		MinNotes:     cfg.Adapter.MinNotes,
	}, logging.Logger())

	opsServer := ops.New(ops.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, engine, store, logging.Logger())

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddScoringService(runner)
	tree.AddOpsService(opsServer)

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("veracite starting")

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor exited with error")
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor exited with error")
			os.Exit(1)
		}
	}

	logging.Info().Msg("veracite stopped")
}
