// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package logging provides the process-wide zerolog logger for Lightbox.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("root", root).Msg("Scan started")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Ranking failed")
//
// Components take a zerolog.Logger at construction and tag it:
//
//	logger := logging.WithComponent("library")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
//
// NewSlogLogger bridges the global logger to log/slog for libraries that
// require it, such as the supervisor's sutureslog hook.
package logging
