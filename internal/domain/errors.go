package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a submission id does not resolve within its category.
	ErrNotFound = errors.New("submission not found")

	// ErrUnknownKind is returned for a category that is not in the category table.
	ErrUnknownKind = errors.New("unknown submission category")
)

// Violation is a single field-level rule failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a submission. It is raised
// before any store is touched.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasField reports whether any violation references field.
func (e *ValidationError) HasField(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// UploadError wraps an attachment store failure.
type UploadError struct {
	Field  string
	Bucket string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s to bucket %s failed: %v", e.Field, e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError wraps a record store failure during insert.
type PersistError struct {
	Collection string
	Err        error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("insert into %s failed: %v", e.Collection, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// InvalidStateError is returned when a status is outside the category's set.
type InvalidStateError struct {
	Kind    Kind
	State   Status
	Allowed []Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("status %q is not valid for %s", e.State, e.Kind)
}
