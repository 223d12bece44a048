// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/lightbox/internal/logging"
)

// SlowRequestThreshold is the default duration above which AccessLog warns.
const SlowRequestThreshold = time.Second

// AccessLog logs each request at debug level through the request-scoped
// logger, and at warn level when it takes longer than slow. Server errors
// are always logged at error level.
func AccessLog(slow time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if slow <= 0 {
		slow = SlowRequestThreshold
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next(rec, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())

			event := logger.Debug()
			msg := "Request completed"
			switch {
			case rec.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
				msg = "Request failed"
			case duration > slow:
				event = logger.Warn()
				msg = "Slow request detected"
			}

			event.
				Str("method", r.Method).
				Str("route", RoutePattern(r)).
				Str("path", logging.SanitizeValue(r.URL.Path)).
				Int("status", rec.statusCode).
				Int("bytes", rec.bytes).
				Dur("duration", duration).
				Msg(msg)
		}
	}
}
