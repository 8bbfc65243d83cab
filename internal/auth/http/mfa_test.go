package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/lanternsec/authd/pkg/httpx"
)

func TestTOTPEndpoints(t *testing.T) {
	srv := newTestServer(t)
	reg := srv.register(t, "totp@example.com", "password123")
	access := reg.Tokens.AccessToken

	var enroll TOTPEnrollResponse
	resp := srv.do(t, http.MethodPost, "/v1/mfa/totp/enroll", access, nil, &enroll)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, enroll.Secret)
	require.Contains(t, enroll.URL, "otpauth://")

	code, err := totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)

	resp = srv.do(t, http.MethodPost, "/v1/mfa/totp/activate", access,
		TOTPCodeRequest{Code: code}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Login without a code now trips the second factor.
	var errBody httpx.ErrorResponse
	resp = srv.do(t, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: "totp@example.com", Password: "password123"}, &errBody)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "mfa_required", errBody.Error)

	code, err = totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	var pair TokenResponse
	resp = srv.do(t, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: "totp@example.com", Password: "password123", OTP: code}, &pair)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, pair.AccessToken)

	code, err = totp.GenerateCode(enroll.Secret, time.Now())
	require.NoError(t, err)
	resp = srv.do(t, http.MethodPost, "/v1/mfa/totp/disable", access,
		TOTPCodeRequest{Code: code}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}
