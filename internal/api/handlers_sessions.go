// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/lightbox/internal/metrics"
	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

// CreateSessionRequest starts a browsing session.
type CreateSessionRequest struct {
	models.MediaFilter
	Algorithm string `json:"algorithm" validate:"omitempty,strategy"`

	// ExcludeDisliked falls back to the configured default when omitted.
	ExcludeDisliked *bool `json:"exclude_disliked,omitempty"`
}

// SeekRequest moves the current position of a session.
type SeekRequest struct {
	Position *int `json:"position" validate:"required,gte=0"`
}

// sessionIDRequest validates the {id} path parameter.
type sessionIDRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

// SessionEntry is a ranked entry joined to its media file. File is nil when
// the file was removed after the session was created.
type SessionEntry struct {
	prioritize.RankedEntry
	File *models.MediaFile `json:"file,omitempty"`
}

// SessionPageResponse is one page of a session's order.
type SessionPageResponse struct {
	SessionID string         `json:"session_id"`
	Offset    int            `json:"offset"`
	Limit     int            `json:"limit"`
	Total     int            `json:"total"`
	HasMore   bool           `json:"has_more"`
	Position  int            `json:"position"`
	Entries   []SessionEntry `json:"entries"`
}

// sessionID reads and validates the {id} path parameter.
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	req := sessionIDRequest{ID: chi.URLParam(r, "id")}
	if verr := validateRequest(&req); verr != nil {
		respondValidationError(w, verr)
		return "", false
	}
	return req.ID, true
}

// CreateSession ranks the matching files and stores the order
//
// @Summary Create a browsing session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param body body CreateSessionRequest true "Ordering and filter"
// @Success 201 {object} models.APIResponse{data=session.Summary}
// @Failure 400 {object} models.APIResponse
// @Router /sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		if verr.HasTag("strategy") {
			metrics.RecordPrioritizeRejected()
		}
		respondValidationError(w, verr)
		return
	}

	exclude := h.config.Prioritize.ExcludeDisliked
	if req.ExcludeDisliked != nil {
		exclude = *req.ExcludeDisliked
	}

	sess, err := h.sessions.Create(r.Context(), req.MediaFilter, h.strategy(req.Algorithm), exclude)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, sess.Summarize(), start)
}

// GetSession returns a page of the session's order joined to media files
//
// @Summary Page through a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param offset query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {object} models.APIResponse{data=SessionPageResponse}
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id} [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	page, err := h.sessions.Page(id, getIntParam(r, "offset", 0), h.pageSize(getIntParam(r, "limit", 0)))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	files, err := h.store.GetMediaFilesByID(r.Context(), prioritize.IDs(page.Entries))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	entries := make([]SessionEntry, len(page.Entries))
	for i, e := range page.Entries {
		entries[i] = SessionEntry{RankedEntry: e, File: files[e.ID]}
	}

	respondSuccess(w, http.StatusOK, SessionPageResponse{
		SessionID: page.SessionID,
		Offset:    page.Offset,
		Limit:     page.Limit,
		Total:     page.Total,
		HasMore:   page.HasMore,
		Position:  page.Position,
		Entries:   entries,
	}, start)
}

// SeekSession stores the client's current position
//
// @Summary Move the session position
// @Tags Sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param body body SeekRequest true "Position"
// @Success 200 {object} models.APIResponse{data=session.Summary}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id}/position [put]
func (h *Handler) SeekSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req SeekRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	sess, err := h.sessions.Seek(id, *req.Position)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, sess.Summarize(), start)
}

// DeleteSession drops a session
//
// @Summary Delete a session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /sessions/{id} [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Delete(id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"id": id, "deleted": true}, start)
}
