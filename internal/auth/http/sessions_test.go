package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionListAndRevoke(t *testing.T) {
	srv := newTestServer(t)
	reg := srv.register(t, "sessions@example.com", "password123")

	// A second login opens a second session.
	var second TokenResponse
	resp := srv.do(t, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: "sessions@example.com", Password: "password123"}, &second)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessions []SessionResponse
	resp = srv.do(t, http.MethodGet, "/v1/sessions", reg.Tokens.AccessToken, nil, &sessions)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sessions, 2)

	var current, other string
	for _, s := range sessions {
		if s.Current {
			current = s.ID
		} else {
			other = s.ID
		}
	}
	require.NotEmpty(t, current)
	require.NotEmpty(t, other)

	// Revoke the other session; its refresh secret dies with it.
	resp = srv.do(t, http.MethodDelete, "/v1/sessions/"+other, reg.Tokens.AccessToken, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = srv.do(t, http.MethodPost, "/v1/auth/refresh", "",
		RefreshRequest{RefreshToken: second.RefreshToken}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = srv.do(t, http.MethodDelete, "/v1/sessions/unknown-id", reg.Tokens.AccessToken, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionRevokeAll(t *testing.T) {
	srv := newTestServer(t)
	reg := srv.register(t, "everywhere@example.com", "password123")

	resp := srv.do(t, http.MethodDelete, "/v1/sessions", reg.Tokens.AccessToken, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var sessions []SessionResponse
	resp = srv.do(t, http.MethodGet, "/v1/sessions", reg.Tokens.AccessToken, nil, &sessions)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, sessions)
}

func TestSessionIsolationBetweenUsers(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.register(t, "alice-iso@example.com", "password123")
	bob := srv.register(t, "bob-iso@example.com", "password123")

	var bobSessions []SessionResponse
	resp := srv.do(t, http.MethodGet, "/v1/sessions", bob.Tokens.AccessToken, nil, &bobSessions)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, bobSessions, 1)

	// Alice cannot revoke Bob's session; it looks like it does not exist.
	resp = srv.do(t, http.MethodDelete, "/v1/sessions/"+bobSessions[0].ID, alice.Tokens.AccessToken, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
