package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownIdentifier is used when no client address header is present.
const UnknownIdentifier = "unknown"

// ClientIdentifier extracts the client identifier used as the rate limit
// key. The header order reflects trust in the proxy headers set by the
// hosting edge: X-Forwarded-For (first entry), then X-Real-IP, then
// CF-Connecting-IP. Both counter stores key on this value, so the same
// client is limited consistently regardless of which backend serves the
// check.
func ClientIdentifier(h http.Header) string {
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(h.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(h.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return UnknownIdentifier
}
