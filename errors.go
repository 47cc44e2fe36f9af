package identity

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrEmailInUse is returned when a signup or update collides with an email
// already registered to a non-archived principal.
var ErrEmailInUse = errors.New("email already in use", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode("EMAIL_IN_USE")

// ErrInvalidCredentials covers both an unknown email and a password mismatch.
// Callers must not be able to tell which check failed.
var ErrInvalidCredentials = errors.New("wrong credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrInvalidRefreshToken is returned for refresh tokens that are unknown,
// expired, or already rotated away.
var ErrInvalidRefreshToken = errors.New("refresh token is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_REFRESH_TOKEN")

// ErrInvalidResetCode is returned for reset codes that are unknown, expired,
// or no longer belong to the principal.
var ErrInvalidResetCode = errors.New("invalid or expired reset code", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_RESET_CODE")

// ErrInvalidTokenFormat flags a missing or malformed bearer presentation.
var ErrInvalidTokenFormat = errors.New("invalid token format", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_TOKEN_FORMAT")

// ErrInvalidToken flags an access token that failed verification for any
// reason: bad signature, expired, malformed claims.
var ErrInvalidToken = errors.New("invalid token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_TOKEN")

// ErrTokenExpired is folded into ErrInvalidToken at the gate boundary but is
// kept distinct for operator logging.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrExternalTokenInvalid is returned when the external identity provider
// rejects a federated token.
var ErrExternalTokenInvalid = errors.New("external identity token is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_EXTERNAL_TOKEN")

// ErrPermissionDenied is the authenticated-but-not-allowed outcome.
var ErrPermissionDenied = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode("PERMISSION_DENIED")

// ErrPrincipalNotFound is returned when a referenced principal is absent.
var ErrPrincipalNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("PRINCIPAL_NOT_FOUND")

// ErrRoleNotFound is returned when a referenced role is absent.
var ErrRoleNotFound = errors.New("role not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("ROLE_NOT_FOUND")

// ErrNoEmptyPassword rejects empty passwords before hashing.
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode("EMPTY_PASSWORD")

// ErrMismatchedHashAndPassword is the internal bcrypt mismatch condition.
// Service operations translate it to ErrInvalidCredentials before it can
// reach a caller.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("HASH_MISMATCH")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
