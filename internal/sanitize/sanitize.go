// Package sanitize strips injected markup from free-text form fields before
// they are persisted and later rendered in the admin dashboard.
//
// This is best-effort, regex-based neutralization of the common
// unsophisticated injection patterns, not an HTML parser; sufficiently
// obfuscated payloads may survive. The admin UI must still escape on render.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// Script blocks are removed with their content, so they must go before
	// the generic tag strip (which would otherwise leave the script body
	// behind as plain text).
	scriptBlockRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	tagRe          = regexp.MustCompile(`<[^>]*>`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	uriSchemeRe    = regexp.MustCompile(`(?i)(javascript|data)\s*:`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// Clean neutralizes markup and script payloads in s. The rules run in a
// fixed order; reordering can re-expose patterns broken by an earlier rule.
func Clean(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	s = eventHandlerRe.ReplaceAllString(s, "")
	s = uriSchemeRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
