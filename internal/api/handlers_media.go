// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/lightbox/internal/metrics"
	"github.com/tomtom215/lightbox/internal/models"
)

// MediaListRequest holds validated list parameters.
type MediaListRequest struct {
	models.MediaFilter
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}

// MediaListResponse is one page of media files.
type MediaListResponse struct {
	Files      []models.MediaFile    `json:"files"`
	Pagination models.PaginationInfo `json:"pagination"`
}

// TagsRequest replaces the tags of a media file.
type TagsRequest struct {
	Tags []string `json:"tags" validate:"max=100,dive,min=1,max=64,tagname"`
}

// ListMedia lists media files
//
// @Summary List media files
// @Tags Media
// @Produce json
// @Param folder query string false "Folder relative to its library root"
// @Param recursive query bool false "Include sub-folders"
// @Param type query string false "image or video"
// @Param tag query string false "Tag"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} models.APIResponse{data=MediaListResponse}
// @Failure 400 {object} models.APIResponse
// @Router /media [get]
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filter, err := filterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	req := MediaListRequest{
		MediaFilter: filter,
		Limit:       getIntParam(r, "limit", 0),
		Offset:      getIntParam(r, "offset", 0),
	}
	if verr := validateRequest(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}
	limit := h.pageSize(req.Limit)

	total, err := h.store.CountMediaFiles(r.Context(), req.MediaFilter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	files, err := h.store.ListMediaFiles(r.Context(), req.MediaFilter, limit, req.Offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, MediaListResponse{
		Files: files,
		Pagination: models.PaginationInfo{
			Offset:  req.Offset,
			Limit:   limit,
			Total:   total,
			HasMore: req.Offset+len(files) < total,
		},
	}, start)
}

// GetMedia returns one media file
//
// @Summary Get a media file
// @Tags Media
// @Produce json
// @Param id path int true "Media ID"
// @Success 200 {object} models.APIResponse{data=models.MediaFile}
// @Failure 404 {object} models.APIResponse
// @Router /media/{id} [get]
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := mediaIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	file, err := h.store.GetMediaFile(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, file, start)
}

// mediaAction is a store mutation returning the refreshed file.
type mediaAction func(ctx context.Context, id int64) (*models.MediaFile, error)

// mutateMedia runs action for the {id} path parameter.
func (h *Handler) mutateMedia(w http.ResponseWriter, r *http.Request, kind string, action mediaAction) {
	start := time.Now()

	id, err := mediaIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	file, err := action(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	metrics.RecordReaction(kind)
	respondSuccess(w, http.StatusOK, file, start)
}

// RecordView counts a presentation of the file
//
// @Summary Record a view
// @Tags Media
// @Param id path int true "Media ID"
// @Success 200 {object} models.APIResponse{data=models.MediaFile}
// @Router /media/{id}/view [post]
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	h.mutateMedia(w, r, "view", h.store.RecordView)
}

// Like increments the like count, clearing a dislike
//
// @Summary Like a media file
// @Tags Media
// @Param id path int true "Media ID"
// @Success 200 {object} models.APIResponse{data=models.MediaFile}
// @Router /media/{id}/like [post]
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.mutateMedia(w, r, "like", h.store.Like)
}

// Dislike marks the file as disliked
//
// @Summary Dislike a media file
// @Tags Media
// @Param id path int true "Media ID"
// @Success 200 {object} models.APIResponse{data=models.MediaFile}
// @Router /media/{id}/dislike [post]
func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.mutateMedia(w, r, "dislike", h.store.Dislike)
}

// ClearReaction resets the file to undecided
//
// @Summary Clear like or dislike
// @Tags Media
// @Param id path int true "Media ID"
// @Success 200 {object} models.APIResponse{data=models.MediaFile}
// @Router /media/{id}/reaction [delete]
func (h *Handler) ClearReaction(w http.ResponseWriter, r *http.Request) {
	h.mutateMedia(w, r, "clear", h.store.ClearReaction)
}

// SetTags replaces the tags of a media file
//
// @Summary Replace tags
// @Tags Media
// @Accept json
// @Param id path int true "Media ID"
// @Param body body TagsRequest true "Tags"
// @Success 200 {object} models.APIResponse{data=models.MediaFile}
// @Failure 400 {object} models.APIResponse
// @Router /media/{id}/tags [put]
func (h *Handler) SetTags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := mediaIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	var req TagsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if verr := validateRequest(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	file, err := h.store.SetTags(r.Context(), id, req.Tags)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, file, start)
}

// DeleteMedia soft-deletes a media file
//
// @Summary Hide a media file
// @Tags Media
// @Param id path int true "Media ID"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /media/{id} [delete]
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := mediaIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	if err := h.store.SoftDelete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"id": id, "deleted": true}, start)
}
