package identity_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	identity "github.com/moodymap/go-identity"
)

func TestSignupMessageValidation(t *testing.T) {
	valid := identity.SignupMessage{Name: "Pat", Email: "p@x.com", Password: "secret123"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		msg  identity.SignupMessage
	}{
		{"missing name", identity.SignupMessage{Email: "p@x.com", Password: "secret123"}},
		{"bad email", identity.SignupMessage{Name: "Pat", Email: "nope", Password: "secret123"}},
		{"short password", identity.SignupMessage{Name: "Pat", Email: "p@x.com", Password: "tiny"}},
		{"empty password", identity.SignupMessage{Name: "Pat", Email: "p@x.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.msg.Validate())
		})
	}
}

func TestResetPasswordMessageValidation(t *testing.T) {
	valid := identity.ResetPasswordMessage{UserID: uuid.New(), NewPassword: "secret123", Code: "1234"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		msg  identity.ResetPasswordMessage
	}{
		{"short code", identity.ResetPasswordMessage{NewPassword: "secret123", Code: "12"}},
		{"alphabetic code", identity.ResetPasswordMessage{NewPassword: "secret123", Code: "abcd"}},
		{"missing password", identity.ResetPasswordMessage{Code: "1234"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.msg.Validate())
		})
	}
}

func TestChangePasswordMessageValidation(t *testing.T) {
	valid := identity.ChangePasswordMessage{UserID: uuid.New(), OldPassword: "old", NewPassword: "secret123"}
	assert.NoError(t, valid.Validate())

	missing := identity.ChangePasswordMessage{UserID: uuid.New(), NewPassword: "secret123"}
	assert.Error(t, missing.Validate())

	short := identity.ChangePasswordMessage{UserID: uuid.New(), OldPassword: "old", NewPassword: "ab"}
	assert.Error(t, short.Validate())
}
