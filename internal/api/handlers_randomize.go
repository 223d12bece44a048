// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/lightbox/internal/metrics"
	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

// RandomizeRequest holds validated ordering parameters.
type RandomizeRequest struct {
	models.MediaFilter
	Algorithm       string `json:"algorithm" validate:"omitempty,strategy"`
	ExcludeDisliked bool   `json:"exclude_disliked"`
}

// strategy returns the requested strategy, or the configured default.
func (h *Handler) strategy(name string) string {
	if name == "" {
		return h.config.Prioritize.Strategy().String()
	}
	return name
}

// Randomize returns the ranked order of the matching files
//
// An unknown algorithm is rejected before the library is queried.
//
// @Summary Rank media files
// @Tags Media
// @Produce json
// @Param algorithm query string false "Ordering strategy"
// @Param exclude_disliked query bool false "Drop disliked files"
// @Param folder query string false "Folder"
// @Param recursive query bool false "Include sub-folders"
// @Param type query string false "image or video"
// @Param tag query string false "Tag"
// @Success 200 {object} models.APIResponse{data=[]prioritize.RankedEntry}
// @Failure 400 {object} models.APIResponse "Unknown algorithm"
// @Router /media/randomize [get]
func (h *Handler) Randomize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	exclude, err := getBoolParam(r, "exclude_disliked", h.config.Prioritize.ExcludeDisliked)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	filter, err := filterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	req := RandomizeRequest{
		MediaFilter:     filter,
		Algorithm:       r.URL.Query().Get("algorithm"),
		ExcludeDisliked: exclude,
	}
	if verr := validateRequest(&req); verr != nil {
		if verr.HasTag("strategy") {
			metrics.RecordPrioritizeRejected()
		}
		respondValidationError(w, verr)
		return
	}

	strategy, err := prioritize.ParseStrategy(h.strategy(req.Algorithm))
	if err != nil {
		metrics.RecordPrioritizeRejected()
		respondServiceError(w, err)
		return
	}

	candidates, err := h.store.GetCandidates(r.Context(), req.MediaFilter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	entries, err := h.ranker.Randomize(candidates, strategy, req.ExcludeDisliked)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, entries, start)
}
