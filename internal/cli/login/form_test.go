package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_LoginForm(t *testing.T) {
	tests := []struct {
		name     string
		form     LoginForm
		messages []string
	}{
		{
			name: "valid",
			form: LoginForm{Email: "alice@example.com", Password: "x"},
		},
		{
			name:     "empty",
			form:     LoginForm{},
			messages: []string{"Email is required", "Password is required"},
		},
		{
			name:     "bad email",
			form:     LoginForm{Email: "alice", Password: "x"},
			messages: []string{"Invalid email address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.form)
			if len(tt.messages) == 0 {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)

			got := make([]string, len(verr.Fields))
			for i, f := range verr.Fields {
				got[i] = f.Message
			}
			assert.Equal(t, tt.messages, got)
		})
	}
}

func TestValidate_RegisterForm(t *testing.T) {
	base := validRegisterForm()

	tests := []struct {
		name    string
		mutate  func(*RegisterForm)
		field   string
		message string
	}{
		{"short username", func(f *RegisterForm) { f.Username = "al" }, "Username", "Username must be at least 3 characters"},
		{"short password", func(f *RegisterForm) { f.Password = "short"; f.ConfirmPassword = "short" }, "Password", "Password must be at least 8 characters"},
		{"mismatch", func(f *RegisterForm) { f.ConfirmPassword = "password124" }, "ConfirmPassword", "Passwords do not match"},
		{"terms", func(f *RegisterForm) { f.AcceptTerms = false }, "AcceptTerms", "You must agree to the terms"},
	}

	require.NoError(t, Validate(base))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := base
			tt.mutate(&form)

			var verr *ValidationError
			require.ErrorAs(t, Validate(form), &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, tt.message, verr.Fields[0].Message)
		})
	}
}
