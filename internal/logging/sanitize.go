// Lightbox - Personal Media Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lightbox

package logging

import (
	"strings"
	"unicode"
)

// maxLogValueLen bounds user-supplied values written to logs.
const maxLogValueLen = 256

// SanitizeValue makes a user-supplied string safe to log: control
// characters (including newlines) are replaced with spaces and the result
// is truncated.
func SanitizeValue(s string) string {
	var b strings.Builder
	b.Grow(min(len(s), maxLogValueLen))
	n := 0
	for _, r := range s {
		if n == maxLogValueLen {
			b.WriteString("...")
			break
		}
		if unicode.IsControl(r) {
			r = ' '
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
