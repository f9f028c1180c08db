// Package qrpayload builds and parses the text encoded into every QR code:
// a URL of the form <origin>/scan/<id>.
package qrpayload

import "strings"

const scanSegment = "/scan/"

// Build returns the payload for record id under origin. A trailing slash
// on origin is dropped.
func Build(origin, id string) string {
	return strings.TrimRight(origin, "/") + scanSegment + id
}

// ExtractID recovers the record id from a decoded payload. It takes what
// follows the last "/scan/" when present, otherwise the last non-empty
// "/"-delimited segment, otherwise the trimmed payload itself.
func ExtractID(payload string) string {
	p := strings.TrimSpace(payload)

	if i := strings.LastIndex(p, scanSegment); i >= 0 {
		if id := strings.Trim(p[i+len(scanSegment):], "/"); id != "" {
			return id
		}
	}

	segments := strings.Split(p, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}

	return p
}
