// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

// Package metrics defines the Prometheus metrics exported on /metrics.
//
// Metrics are registered with the default registry via promauto; the
// Record* helpers keep label handling in one place.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Prioritization metrics
	PrioritizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prioritize_duration_seconds",
			Help:    "Time spent ordering a candidate set",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.5},
		},
		[]string{"strategy"},
	)

	PrioritizeItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prioritize_items",
			Help:    "Number of records in each produced order",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
		[]string{"strategy"},
	)

	PrioritizeRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prioritize_rejected_total",
			Help: "Orderings rejected for naming an unknown strategy",
		},
	)

	// Session metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "browse_sessions_active",
			Help: "Browsing sessions currently cached",
		},
	)

	SessionLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browse_session_lookups_total",
			Help: "Session lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	SessionEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "browse_session_evictions_total",
			Help: "Sessions dropped by capacity or expiry",
		},
	)

	// Library metrics
	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "library_scan_duration_seconds",
			Help:    "Duration of library scans",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300, 900},
		},
	)

	ScanFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_scan_files_total",
			Help: "Files seen by library scans, by outcome",
		},
		[]string{"outcome"}, // indexed, skipped, removed, error
	)

	ScanLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_scan_last_success_timestamp",
			Help: "Unix time of the last successful scan",
		},
	)

	LibraryFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "library_media_files",
			Help: "Live media files in the library by type",
		},
		[]string{"media_type"},
	)

	// Engagement metrics
	MediaReactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_reactions_total",
			Help: "Views and reactions recorded, by kind",
		},
		[]string{"kind"}, // view, like, dislike, clear
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, errorType(err)).Inc()
	}
}

// errorType keeps the error label low-cardinality.
func errorType(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	msg := err.Error()
	if len(msg) > 50 {
		msg = msg[:50]
	}
	return msg
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordPrioritize records one produced order.
func RecordPrioritize(strategy string, items int, duration time.Duration) {
	PrioritizeDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	PrioritizeItems.WithLabelValues(strategy).Observe(float64(items))
}

// RecordPrioritizeRejected counts an order refused for its strategy name.
func RecordPrioritizeRejected() {
	PrioritizeRejected.Inc()
}

// RecordSessionLookup counts a session cache lookup.
func RecordSessionLookup(hit bool) {
	if hit {
		SessionLookups.WithLabelValues("hit").Inc()
	} else {
		SessionLookups.WithLabelValues("miss").Inc()
	}
}

// RecordScan records a finished scan.
func RecordScan(duration time.Duration, indexed, skipped, removed, failed int, err error) {
	ScanDuration.Observe(duration.Seconds())
	ScanFiles.WithLabelValues("indexed").Add(float64(indexed))
	ScanFiles.WithLabelValues("skipped").Add(float64(skipped))
	ScanFiles.WithLabelValues("removed").Add(float64(removed))
	ScanFiles.WithLabelValues("error").Add(float64(failed))
	if err == nil {
		ScanLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// SetLibraryFiles publishes live file counts by media type.
func SetLibraryFiles(images, videos int) {
	LibraryFiles.WithLabelValues("image").Set(float64(images))
	LibraryFiles.WithLabelValues("video").Set(float64(videos))
}

// RecordReaction counts a view or reaction.
func RecordReaction(kind string) {
	MediaReactions.WithLabelValues(kind).Inc()
}
