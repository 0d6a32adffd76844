// Package antibot holds the honeypot check for public form submissions.
package antibot

import "strings"

// IsBot reports whether the hidden decoy field was filled in. Humans never
// see the field, so any non-blank value marks the submission as automated.
// Callers must reject with a generic message only: revealing the reason
// teaches bot authors which field to leave empty.
func IsBot(honeypot string) bool {
	return strings.TrimSpace(honeypot) != ""
}
