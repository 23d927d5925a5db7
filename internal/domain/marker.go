package domain

import "regexp"

// An injection marker is only counted when the depth token is followed
// by its confirmation phrase within 200 bytes. A bare token (quoted
// docs, partial writes, mimicked text) must not count.
//
// The gap quantifier is lazy so two back-to-back confirmed markers in
// one record count as two matches instead of the first match swallowing
// the second token.
var markerPattern = regexp.MustCompile(`\[INJECTION-DEPTH:[^\]]*\].{0,200}?Recovered Conversation Context`)

// CountMarkers returns the number of confirmed injection markers in a
// single session record.
func CountMarkers(record []byte) int {
	return len(markerPattern.FindAll(record, -1))
}
