// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/lightbox/internal/api"
	"github.com/tomtom215/lightbox/internal/logging"
	"github.com/tomtom215/lightbox/internal/supervisor"
	"github.com/tomtom215/lightbox/internal/supervisor/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe runs the supervisor tree until SIGINT or SIGTERM.
func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Strs("roots", cfg.Library.Roots).
		Str("default_strategy", cfg.Prioritize.Strategy().String()).
		Msg("Starting Lightbox with supervisor tree")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// sutureslog needs slog; bridge it onto zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	dataServices := []suture.Service{
		services.NewScanService(a.scanner, services.ScanServiceConfig{
			ScanOnStartup: cfg.Library.ScanOnStartup,
			Interval:      cfg.Library.ScanInterval,
		}, logging.WithComponent("scan-service")),
		services.NewSessionJanitorService(a.sessions, cfg.Session.CleanupInterval, logging.WithComponent("session-janitor")),
	}
	for _, svc := range dataServices {
		if _, err := tree.Add(supervisor.LayerData, svc); err != nil {
			return err
		}
	}

	handler := api.NewHandler(a.db, a.engine, a.sessions, a.scanner, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(&cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}
	if _, err := tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout)); err != nil {
		return err
	}

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree stopped: %w", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within shutdown timeout")
		}
	}

	logging.Info().Msg("Lightbox stopped")
	return nil
}
