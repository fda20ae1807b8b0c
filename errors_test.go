package auth_test

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auth "github.com/platziflix/go-auth"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		expected  bool
	}{
		{
			name:      "Duplicate email",
			err:       auth.ErrDuplicateEmail,
			predicate: auth.IsDuplicateEmailError,
			expected:  true,
		},
		{
			name:      "Invalid credentials",
			err:       auth.ErrInvalidCredentials,
			predicate: auth.IsInvalidCredentialsError,
			expected:  true,
		},
		{
			name:      "Invalid token",
			err:       auth.ErrTokenInvalid,
			predicate: auth.IsTokenInvalidError,
			expected:  true,
		},
		{
			name:      "Unauthenticated covers invalid token",
			err:       auth.ErrTokenInvalid,
			predicate: auth.IsUnauthenticatedError,
			expected:  true,
		},
		{
			name:      "Unauthenticated covers resolution failure",
			err:       auth.ErrUnauthenticated,
			predicate: auth.IsUnauthenticatedError,
			expected:  true,
		},
		{
			name:      "Predicates ignore unrelated errors",
			err:       errors.New("boom"),
			predicate: auth.IsDuplicateEmailError,
			expected:  false,
		},
		{
			name:      "Predicates ignore nil",
			err:       nil,
			predicate: auth.IsInvalidCredentialsError,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.predicate(tt.err))
		})
	}
}

func TestErrorStatusCodes(t *testing.T) {
	var richErr *goerrors.Error

	assert.True(t, goerrors.As(auth.ErrDuplicateEmail, &richErr))
	assert.Equal(t, goerrors.CodeConflict, richErr.Code)

	assert.True(t, goerrors.As(auth.ErrInvalidCredentials, &richErr))
	assert.Equal(t, goerrors.CodeUnauthorized, richErr.Code)

	assert.True(t, goerrors.As(auth.ErrInactiveUser, &richErr))
	assert.Equal(t, goerrors.CodeForbidden, richErr.Code)
}

// Store failures during login must surface as internal errors, never as
// invalid credentials, and never leak detail to the caller.
func TestAutherLoginStoreFailure(t *testing.T) {
	store := &MockUsers{}
	store.On("GetByEmail", mock.Anything, "a@x.com").
		Return(nil, goerrors.New("connection refused", goerrors.CategoryInternal))

	auther := auth.NewAuthenticator(NewMockRepositoryManager(store), newTestConfig()).
		WithLogger(quietLogger{})

	_, err := auther.Login(context.Background(), "a@x.com", "pw12345678")

	assert.Error(t, err)
	assert.False(t, auth.IsInvalidCredentialsError(err))

	var richErr *goerrors.Error
	assert.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, goerrors.CategoryInternal, richErr.Category)

	store.AssertExpectations(t)
}
