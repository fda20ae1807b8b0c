package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeInvalidToken       = "INVALID_TOKEN"
	textCodeUnauthenticated    = "UNAUTHENTICATED"
	textCodeInactiveUser       = "INACTIVE_USER"
)

// ErrDuplicateEmail is returned when registration hits an email that is
// already taken by a non-deleted account.
var ErrDuplicateEmail = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(textCodeDuplicateEmail).
	WithCode(goerrors.CodeConflict)

// ErrInvalidCredentials is returned for every failed login. Unknown email and
// wrong password share this error so callers cannot probe for registered
// addresses.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid is the single outcome for malformed, tampered, mis-signed,
// and expired tokens. Collapsing the reasons keeps the codec from acting as a
// validity oracle.
var ErrTokenInvalid = goerrors.New("could not validate credentials", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthenticated is returned when a resolved subject has no matching
// active account.
var ErrUnauthenticated = goerrors.New("user not found or inactive", goerrors.CategoryAuth).
	WithTextCode(textCodeUnauthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrInactiveUser is returned by the post-resolution guard when the account
// was deactivated after the token was issued.
var ErrInactiveUser = goerrors.New("inactive user", goerrors.CategoryAuthz).
	WithTextCode(textCodeInactiveUser).
	WithCode(goerrors.CodeForbidden)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is returned when a password does not match the
// stored digest.
var ErrMismatchedHashAndPassword = goerrors.New("hashed password mismatch", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// IsDuplicateEmailError will check for registration conflicts.
func IsDuplicateEmailError(err error) bool {
	return hasTextCode(err, textCodeDuplicateEmail)
}

// IsInvalidCredentialsError will check for failed logins.
func IsInvalidCredentialsError(err error) bool {
	return hasTextCode(err, textCodeInvalidCredentials)
}

// IsTokenInvalidError will check for rejected tokens.
func IsTokenInvalidError(err error) bool {
	return hasTextCode(err, textCodeInvalidToken)
}

// IsUnauthenticatedError will check for identity resolution failures.
func IsUnauthenticatedError(err error) bool {
	return hasTextCode(err, textCodeUnauthenticated) || hasTextCode(err, textCodeInvalidToken)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
