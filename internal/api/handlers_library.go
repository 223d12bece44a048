// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package api

import (
	"net/http"
	"time"
)

// Folders lists folders with their live file counts
//
// @Summary List folders
// @Tags Library
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.FolderCount}
// @Router /folders [get]
func (h *Handler) Folders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	folders, err := h.store.ListFolders(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, folders, start)
}

// Tags lists tags by usage
//
// @Summary List tags
// @Tags Library
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.TagCount}
// @Router /tags [get]
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, tags, start)
}

// Stats returns library totals
//
// @Summary Library statistics
// @Tags Library
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.LibraryStats}
// @Router /stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}

// Scan runs a library scan and returns its report
//
// @Summary Scan the library
// @Tags Library
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ScanReport}
// @Failure 409 {object} models.APIResponse "A scan is already running"
// @Router /library/scan [post]
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.scanner == nil {
		respondError(w, http.StatusServiceUnavailable, CodeNotReady, "No library roots are configured", nil)
		return
	}
	report, err := h.scanner.Scan(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, report, start)
}

// LibraryStatus reports the configured roots and the last scan
//
// @Summary Scanner status
// @Tags Library
// @Produce json
// @Success 200 {object} models.APIResponse{data=library.Status}
// @Router /library/status [get]
func (h *Handler) LibraryStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.scanner == nil {
		respondError(w, http.StatusServiceUnavailable, CodeNotReady, "No library roots are configured", nil)
		return
	}
	respondSuccess(w, http.StatusOK, h.scanner.Status(), start)
}
