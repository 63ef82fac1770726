package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Email       string `validate:"required,email"`
	FirstName   string `validate:"required"`
	Rating      int    `validate:"min=1,max=5"`
	AccountType string `validate:"oneof=Student Instructor"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(signupForm{Email: "nope", Rating: 9, AccountType: "Admin"})

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "Email must be a valid email")
	assert.Contains(t, msg, "First name is required")
	assert.Contains(t, msg, "Rating must be at most 5")
	assert.Contains(t, msg, "Account type must be one of: Student Instructor")
}

func TestFormatValidationErrorPassThrough(t *testing.T) {
	assert.Equal(t, "EOF", FormatValidationError(errors.New("EOF")))
}
