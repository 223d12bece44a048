// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/lightbox/internal/logging"
)

func captureIDs(t *testing.T, header string) (requestID, correlationID, response string) {
	t.Helper()
	handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
		requestID = logging.RequestIDFromContext(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return requestID, correlationID, rec.Header().Get(RequestIDHeader)
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	requestID, correlationID, response := captureIDs(t, "")

	if response == "" {
		t.Fatal("Expected X-Request-ID header in response")
	}
	if _, err := uuid.Parse(response); err != nil {
		t.Errorf("Response X-Request-ID is not a valid UUID: %v", err)
	}
	if requestID != response {
		t.Errorf("Context ID (%s) doesn't match response header ID (%s)", requestID, response)
	}
	if correlationID == "" {
		t.Error("Expected correlation ID in context")
	}
}

func TestRequestID_PreservesExistingID(t *testing.T) {
	t.Parallel()

	existing := "existing-request-id-12345"
	requestID, _, response := captureIDs(t, existing)

	if response != existing || requestID != existing {
		t.Errorf("IDs = (%s, %s), want %s", requestID, response, existing)
	}
}

func TestRequestID_ReplacesUnsafeID(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"control characters": "abc\ninjected",
		"oversized":          strings.Repeat("a", maxRequestIDLen+1),
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, response := captureIDs(t, header)
			if response == header {
				t.Error("unsafe request ID was echoed back")
			}
			if _, err := uuid.Parse(response); err != nil {
				t.Errorf("replacement ID is not a UUID: %v", err)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 50 {
		_, _, id := captureIDs(t, "")
		if seen[id] {
			t.Fatalf("duplicate request ID %s", id)
		}
		seen[id] = true
	}
}
