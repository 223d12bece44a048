// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/lightbox/internal/database"
	"github.com/tomtom215/lightbox/internal/library"
	"github.com/tomtom215/lightbox/internal/prioritize"
	"github.com/tomtom215/lightbox/internal/session"
	"github.com/tomtom215/lightbox/internal/validation"
)

// API error codes
const (
	CodeValidation      = validation.CodeValidation
	CodeInvalidStrategy = "INVALID_STRATEGY"
	CodeNotFound        = "NOT_FOUND"
	CodeDatabase        = "DATABASE_ERROR"
	CodeScanInProgress  = "SCAN_IN_PROGRESS"
	CodeRateLimited     = "RATE_LIMITED"
	CodeNotReady        = "NOT_READY"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrInvalidMediaID indicates a malformed {id} path parameter.
var ErrInvalidMediaID = errors.New("invalid media id")

// respondServiceError maps errors from the store, session manager and
// scanner onto API errors.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, prioritize.ErrInvalidStrategy):
		respondError(w, http.StatusBadRequest, CodeInvalidStrategy, err.Error(), nil)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "Media file not found", nil)
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, "Session not found or expired", nil)
	case errors.Is(err, session.ErrPositionOutOfRange):
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
	case errors.Is(err, library.ErrScanInProgress):
		respondError(w, http.StatusConflict, CodeScanInProgress, "A library scan is already running", nil)
	default:
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Request could not be completed", err)
	}
}
