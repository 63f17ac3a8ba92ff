package login

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every form validation failure
var ErrValidation = errors.New("invalid form")

// LoginForm is the input of the login flow
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterForm is the input of the registration flow
type RegisterForm struct {
	Username        string `validate:"required,min=3,max=50"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	AcceptTerms     bool   `validate:"required"`
}

// FieldError is one failed field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists the failed fields in declaration order
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// fieldMessages mirrors the form's user-facing messages, keyed field.tag
var fieldMessages = map[string]string{
	"Email.required":           "Email is required",
	"Email.email":              "Invalid email address",
	"Password.required":        "Password is required",
	"Password.min":             "Password must be at least 8 characters",
	"Username.required":        "Username is required",
	"Username.min":             "Username must be at least 3 characters",
	"Username.max":             "Username must be at most 50 characters",
	"ConfirmPassword.required": "Please confirm your password",
	"ConfirmPassword.eqfield":  "Passwords do not match",
	"AcceptTerms.required":     "You must agree to the terms",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks form and returns a *ValidationError on failure
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}
