// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/lightbox/internal/config"
	"github.com/tomtom215/lightbox/internal/database"
	"github.com/tomtom215/lightbox/internal/library"
	"github.com/tomtom215/lightbox/internal/logging"
	"github.com/tomtom215/lightbox/internal/metrics"
	"github.com/tomtom215/lightbox/internal/prioritize"
	"github.com/tomtom215/lightbox/internal/session"
)

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	db       *database.DB
	engine   *prioritize.Engine
	sessions *session.Manager
	scanner  *library.Scanner
}

// loadConfig loads configuration and configures the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	return cfg, nil
}

// newApp opens the database and builds the ordering components.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.SeedFile != "" {
		if _, err := db.LoadSeedFile(ctx, cfg.Database.SeedFile); err != nil {
			return nil, errors.Join(err, db.Close())
		}
	}

	engine, err := prioritize.NewEngine(cfg.Prioritize.EngineConfig(), logging.WithComponent("prioritize"))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create prioritize engine: %w", err), db.Close())
	}
	engine.SetObserver(func(strategy prioritize.Strategy, items int, elapsed time.Duration) {
		metrics.RecordPrioritize(strategy.String(), items, elapsed)
	})

	return &app{
		cfg:      cfg,
		db:       db,
		engine:   engine,
		sessions: session.NewManager(&cfg.Session, db, engine, logging.WithComponent("session")),
		scanner:  library.NewScanner(&cfg.Library, db, logging.WithComponent("library")),
	}, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing database")
	}
}
