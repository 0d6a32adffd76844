package models

import "time"

// SubmissionRequest is the raw contact form payload as received from the
// website. Nothing in it is trusted until it passes the validator.
type SubmissionRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ServiceType string `json:"serviceType"`
	Message     string `json:"message"`

	// Website is the honeypot field. It is hidden on the real form and must
	// stay empty; bots that fill every input reveal themselves here.
	Website string `json:"website"`
}

// ValidatedSubmission is the typed, normalized output of the validator.
// Every field is guaranteed well-formed; downstream code never re-validates.
type ValidatedSubmission struct {
	FirstName   string
	LastName    string
	Email       string // lower-cased, may be empty
	Phone       string // digits only, 10 or 12 digits
	ServiceType string
	Message     string // may be empty
}

// Contact submission statuses as stored in the contacts table. Status
// transitions are owned by the admin dashboard; the pipeline only ever
// inserts StatusNew rows.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusResolved = "resolved"
)

// ContactSubmission is a persisted contact row.
type ContactSubmission struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	ServiceType string
	Message     string
	Status      string
	CreatedAt   time.Time
}

// SubmitResult is the uniform outcome of a submission: exactly one of
// Success or Error is set, never both, never neither.
type SubmitResult struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`

	// RateLimited marks a quota rejection so the HTTP layer can answer 429
	// instead of 400. Not part of the response body.
	RateLimited bool `json:"-"`
}

// Succeeded reports whether the submission was accepted.
func (r *SubmitResult) Succeeded() bool {
	return r.Success != ""
}
