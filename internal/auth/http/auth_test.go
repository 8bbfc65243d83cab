package http

import (
	"net/http"
	"testing"

	"github.com/lanternsec/authd/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefreshFlow(t *testing.T) {
	srv := newTestServer(t)

	reg := srv.register(t, "alice@example.com", "password123")
	require.Equal(t, "alice@example.com", reg.User.Email)
	require.NotEmpty(t, reg.Tokens.AccessToken)
	require.Equal(t, "Bearer", reg.Tokens.TokenType)

	var pair TokenResponse
	resp := srv.do(t, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: "alice@example.com", Password: "password123"}, &pair)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var next TokenResponse
	resp = srv.do(t, http.MethodPost, "/v1/auth/refresh", "",
		RefreshRequest{RefreshToken: pair.RefreshToken}, &next)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The rotated-away secret is rejected.
	var errBody httpx.ErrorResponse
	resp = srv.do(t, http.MethodPost, "/v1/auth/refresh", "",
		RefreshRequest{RefreshToken: pair.RefreshToken}, &errBody)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "unauthorized", errBody.Error)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "bob@example.com", "password123")

	var errBody httpx.ErrorResponse
	resp := srv.do(t, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: "bob@example.com", Password: "nope-nope"}, &errBody)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid_credentials", errBody.Error)

	// Unknown email is indistinguishable from a wrong password.
	resp = srv.do(t, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: "nobody@example.com", Password: "whatever1"}, &errBody)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid_credentials", errBody.Error)
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.do(t, http.MethodPost, "/v1/auth/register", "",
		RegisterRequest{Email: "not-an-email", Password: "password123"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/v1/auth/register", "",
		RegisterRequest{Email: "short@example.com", Password: "tiny"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterConflict(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "dup@example.com", "password123")

	var errBody httpx.ErrorResponse
	resp := srv.do(t, http.MethodPost, "/v1/auth/register", "",
		RegisterRequest{Email: "dup@example.com", Password: "password456"}, &errBody)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "email_in_use", errBody.Error)
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newTestServer(t)
	reg := srv.register(t, "carol@example.com", "password123")

	resp := srv.do(t, http.MethodPost, "/v1/auth/logout", reg.Tokens.AccessToken, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The refresh secret belonged to the revoked session; replaying it trips
	// the anomaly branch.
	var errBody httpx.ErrorResponse
	resp = srv.do(t, http.MethodPost, "/v1/auth/refresh", "",
		RefreshRequest{RefreshToken: reg.Tokens.RefreshToken}, &errBody)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "session_revoked", errBody.Error)
}

func TestAuthnRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/v1/users/me", "/v1/sessions"} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}
