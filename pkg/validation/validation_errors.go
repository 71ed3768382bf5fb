package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps submitted field names to user-friendly labels
var FieldLabels = map[string]string{
	// Job seeker form
	"full_name":       "Full name",
	"age":             "Age",
	"location":        "Location",
	"job_profile":     "Job profile",
	"experience":      "Experience",
	"phone":           "Phone",
	"last_salary":     "Last salary",
	"expected_salary": "Expected salary",
	"photo":           "Photo",
	"resume":          "Resume",

	// Business form
	"hotel_name":     "Hotel name",
	"owner_name":     "Owner name",
	"contact_number": "Contact number",
	"logo":           "Logo",
	"document":       "Document",

	// Reviewer login
	"username": "Username",
	"password": "Password",
}

// FieldError is one failed rule, keyed by the submitted field name.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors converts validator.ValidationErrors into per-field messages.
// Any other error yields nil.
func FieldErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{Field: e.Field(), Message: formatRule(e)})
	}
	return out
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	fieldErrors := FieldErrors(err)
	if fieldErrors == nil {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fmt.Sprintf("%s %s", Label(fe.Field), fe.Message))
	}
	return messages
}

// formatRule describes the failed rule without the field label
func formatRule(e validator.FieldError) string {
	param := e.Param()

	switch e.Tag() {
	case "required":
		return "is required"

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return fmt.Sprintf("must be at most %s", param)

	case "numeric":
		return "must be a number"

	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(param, " ", ", "))

	case "email":
		return "must be a valid email address"

	case "valid_name":
		return "may only contain letters, spaces and common punctuation"

	case "no_emoji":
		return "must not contain emoji or special symbols"

	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}

// Label returns the user-friendly label for a field
func Label(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return formatSnakeCase(field)
}

// formatSnakeCase turns full_name into "Full name"
func formatSnakeCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
