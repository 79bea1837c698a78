package forms

import (
	"fmt"
	"regexp"
	"strings"
)

// MinMessageLength is the shortest inquiry message accepted.
const MinMessageLength = 10

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a user-facing validation failure tied to one field,
// distinct from internal errors.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Sanitize trims and collapses internal whitespace runs.
func Sanitize(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return s != "" && len(s) <= 254 && emailRe.MatchString(s)
}

// ValidateInquiry checks and normalizes a contact submission in place.
func ValidateInquiry(name, email, phone, message *string) error {
	*name = Sanitize(*name)
	*email = strings.ToLower(Sanitize(*email))
	*phone = Sanitize(*phone)
	*message = strings.TrimSpace(*message)

	if *name == "" {
		return &FieldError{Field: "name", Message: "name is required"}
	}
	if *email == "" {
		return &FieldError{Field: "email", Message: "email is required"}
	}
	if !ValidEmail(*email) {
		return &FieldError{Field: "email", Message: "enter a valid email address"}
	}
	if *message == "" {
		return &FieldError{Field: "message", Message: "message is required"}
	}
	if len(*message) < MinMessageLength {
		return &FieldError{Field: "message", Message: fmt.Sprintf("message must be at least %d characters", MinMessageLength)}
	}
	return nil
}

// ValidateEmailField checks and normalizes a bare email submission.
func ValidateEmailField(email *string) error {
	*email = strings.ToLower(Sanitize(*email))
	if *email == "" {
		return &FieldError{Field: "email", Message: "email is required"}
	}
	if !ValidEmail(*email) {
		return &FieldError{Field: "email", Message: "enter a valid email address"}
	}
	return nil
}
