package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	FullName string `form:"full_name" validate:"required,no_emoji"`
	Phone    string `form:"phone" validate:"required,max=40"`
	Salary   string `form:"last_salary" validate:"omitempty,numeric"`
}

func TestFieldErrorsUsesFormNames(t *testing.T) {
	v := New()
	err := v.Struct(form{FullName: "Asha 🙂", Phone: strings.Repeat("9", 41), Salary: "lots"})
	require.Error(t, err)

	fields := FieldErrors(err)
	require.Len(t, fields, 3)
	assert.Equal(t, FieldError{Field: "full_name", Message: "must not contain emoji or special symbols"}, fields[0])
	assert.Equal(t, FieldError{Field: "phone", Message: "must be at most 40 characters"}, fields[1])
	assert.Equal(t, FieldError{Field: "last_salary", Message: "must be a number"}, fields[2])
}

func TestFormatValidationErrors(t *testing.T) {
	v := New()
	err := v.Struct(form{})
	require.Error(t, err)

	assert.Equal(t, []string{"Full name is required", "Phone is required"}, FormatValidationErrors(err))
	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
	assert.Nil(t, FieldErrors(errors.New("boom")))
}

func TestLabelFallback(t *testing.T) {
	assert.Equal(t, "Hotel name", Label("hotel_name"))
	assert.Equal(t, "Business type", Label("business_type"))
}
