// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/lightbox/internal/models"
	"github.com/tomtom215/lightbox/internal/prioritize"
)

// StrategyInfo describes one ordering strategy.
type StrategyInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Deterministic bool   `json:"deterministic"`
}

// StrategiesResponse lists the closed strategy set.
type StrategiesResponse struct {
	Strategies      []StrategyInfo `json:"strategies"`
	Default         string         `json:"default"`
	ExcludeDisliked bool           `json:"exclude_disliked"`
}

// rankerStats is implemented by rankers that count their calls.
type rankerStats interface {
	Stats() (calls, slow int64)
}

// HealthLive handles liveness check requests
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness check requests
// Returns 200 OK only if the database answers
//
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil

	health := models.HealthStatus{
		Status:    "ready",
		Version:   Version,
		Database:  dbConnected,
		Uptime:    time.Since(h.startTime).Seconds(),
		Timestamp: time.Now(),
	}
	if rs, ok := h.ranker.(rankerStats); ok {
		health.Orderings, health.SlowOrderings = rs.Stats()
	}

	if !dbConnected {
		health.Status = "not_ready"
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error: &models.APIError{
				Code:    CodeNotReady,
				Message: "Database is not reachable",
			},
		})
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Strategies lists the available ordering strategies
//
// @Summary List ordering strategies
// @Tags Media
// @Produce json
// @Success 200 {object} models.APIResponse{data=StrategiesResponse}
// @Router /strategies [get]
func (h *Handler) Strategies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	all := prioritize.Strategies()
	resp := StrategiesResponse{
		Strategies:      make([]StrategyInfo, 0, len(all)),
		Default:         h.config.Prioritize.Strategy().String(),
		ExcludeDisliked: h.config.Prioritize.ExcludeDisliked,
	}
	for _, s := range all {
		resp.Strategies = append(resp.Strategies, StrategyInfo{
			Name:          s.String(),
			Description:   s.Description(),
			Deterministic: s.Deterministic(),
		})
	}

	respondSuccess(w, http.StatusOK, resp, start)
}
