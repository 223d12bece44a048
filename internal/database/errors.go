// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package database

import (
	"errors"
	"time"

	"github.com/tomtom215/lightbox/internal/metrics"
)

// ErrNotFound is returned when a media file does not exist or is soft-deleted.
var ErrNotFound = errors.New("media file not found")

// observe records query metrics. It is deferred with a pointer to the
// caller's named error so the final error is seen.
func observe(operation, table string, start time.Time, err *error) {
	var e error
	if err != nil && !errors.Is(*err, ErrNotFound) {
		e = *err
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), e)
}
