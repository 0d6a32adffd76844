// Package validation schema-checks and normalizes raw contact form fields.
// Rules fail fast: the first violated field rule is returned and surfaced to
// the caller verbatim, a deliberate simplicity choice for a public form.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/lexjuris/lexjuris-api/internal/catalog"
	"github.com/lexjuris/lexjuris-api/internal/models"
)

var (
	nameRe         = regexp.MustCompile(`^[A-Za-z\s]+$`)
	nonDigitRe     = regexp.MustCompile(`\D`)
	indianMobileRe = regexp.MustCompile(`^[6-9]\d{9}$`)

	// Single validator instance; used for the email format rule only.
	validate = validator.New()
)

// FieldError is a single violated field rule. Its message is shown to the
// caller as-is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Name validates a first/last name field and returns the trimmed value.
// Letters and spaces only, 2-50 characters.
func Name(field, label, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < 2 || len(trimmed) > 50 {
		return "", &FieldError{Field: field, Message: label + " must be between 2 and 50 characters"}
	}
	if !nameRe.MatchString(trimmed) {
		return "", &FieldError{Field: field, Message: label + " may only contain letters and spaces"}
	}
	return trimmed, nil
}

// Phone normalizes a phone number to digits only and validates it as an
// Indian mobile number. 10 digits are accepted directly; 12 digits allow a
// 2-digit country prefix ahead of the 10-digit subscriber number. The prefix
// itself is deliberately not checked against "91" (preserved permissive
// behavior, see DESIGN.md).
func Phone(value string) (string, error) {
	digits := nonDigitRe.ReplaceAllString(value, "")
	if len(digits) != 10 && len(digits) != 12 {
		return "", &FieldError{Field: "phone", Message: "Please enter a valid 10-digit mobile number"}
	}
	subscriber := digits[len(digits)-10:]
	if !indianMobileRe.MatchString(subscriber) {
		return "", &FieldError{Field: "phone", Message: "Please enter a valid Indian mobile number"}
	}
	return digits, nil
}

// ServiceType validates the requested service against the catalog's closed
// enumeration.
func ServiceType(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !catalog.IsValidServiceType(trimmed) {
		return "", &FieldError{Field: "serviceType", Message: "Please select a valid service"}
	}
	return trimmed, nil
}

// Message validates the optional free-text message. When present it must be
// 10-1000 characters with at least 10 non-whitespace characters, so
// whitespace padding cannot satisfy the minimum.
func Message(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) < 10 || len(trimmed) > 1000 {
		return "", &FieldError{Field: "message", Message: "Message must be between 10 and 1000 characters"}
	}
	if countNonWhitespace(trimmed) < 10 {
		return "", &FieldError{Field: "message", Message: "Message must contain at least 10 characters"}
	}
	return trimmed, nil
}

// Email validates the optional email field and returns it trimmed and
// lower-cased.
func Email(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return "", nil
	}
	if err := validate.Var(trimmed, "email"); err != nil {
		return "", &FieldError{Field: "email", Message: "Please enter a valid email address"}
	}
	return trimmed, nil
}

// Submission runs all field rules against a raw request, failing fast on the
// first violation, and returns the normalized record.
func Submission(req *models.SubmissionRequest) (*models.ValidatedSubmission, error) {
	firstName, err := Name("firstName", "First name", req.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := Name("lastName", "Last name", req.LastName)
	if err != nil {
		return nil, err
	}
	email, err := Email(req.Email)
	if err != nil {
		return nil, err
	}
	phone, err := Phone(req.Phone)
	if err != nil {
		return nil, err
	}
	serviceType, err := ServiceType(req.ServiceType)
	if err != nil {
		return nil, err
	}
	message, err := Message(req.Message)
	if err != nil {
		return nil, err
	}

	return &models.ValidatedSubmission{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       phone,
		ServiceType: serviceType,
		Message:     message,
	}, nil
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
