package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/platziflix/go-auth"
)

// Full journey: register, login, receive a bearer token, and resolve it back
// into the same identity through the protected route.
func TestRegisterLoginResolveRoundTrip(t *testing.T) {
	app, _, repo := newAuthApp(t)

	resp, body := postJSON(t, app, "/auth/register", auth.RegisterPayload{
		Email:    "journey@x.com",
		Password: "pw12345678",
		FullName: "Journey",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered auth.UserResponse
	require.NoError(t, json.Unmarshal(body, &registered))
	require.True(t, registered.IsActive)

	resp, body = postJSON(t, app, "/auth/login", auth.LoginPayload{
		Email:    "journey@x.com",
		Password: "pw12345678",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token auth.Token
	require.NoError(t, json.Unmarshal(body, &token))
	require.Equal(t, auth.TokenTypeBearer, token.TokenType)

	resp, body = doRequest(t, app, http.MethodGet, "/auth/me", token.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var resolved auth.UserResponse
	require.NoError(t, json.Unmarshal(body, &resolved))
	assert.Equal(t, registered.ID, resolved.ID)
	assert.True(t, resolved.IsActive)

	// Soft-deleting the account kills the still-valid token.
	require.NoError(t, repo.Users().SoftDelete(context.Background(), registered.ID))

	resp, body = doRequest(t, app, http.MethodGet, "/auth/me", token.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "user not found or inactive")
}

// Two registrations for the same email: exactly one wins, the loser sees the
// uniqueness failure, and login still works for the winner.
func TestDuplicateRegistrationKeepsFirstAccount(t *testing.T) {
	auther, _ := newTestAuther(t)
	ctx := context.Background()

	first, err := auther.RegisterUser(ctx, "a@x.com", "pw12345678", "A")
	require.NoError(t, err)

	_, err = auther.RegisterUser(ctx, "a@x.com", "other12345", "B")
	require.ErrorIs(t, err, auth.ErrDuplicateEmail)

	user, err := auther.Login(ctx, "a@x.com", "pw12345678")
	require.NoError(t, err)
	assert.Equal(t, first.ID, user.ID)

	// The losing registration's password never took.
	_, err = auther.Login(ctx, "a@x.com", "other12345")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
