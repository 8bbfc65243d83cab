package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lanternsec/authd/internal/auth/domain"
	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/pkg/httpx"
	"github.com/lanternsec/authd/pkg/slogx"
)

// TokenResponse is the body returned by register, login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int64  `json:"expires_in" example:"900"` // seconds
}

func newTokenResponse(pair domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(pair.ExpiresIn / time.Second),
	}
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Role       string    `json:"role"`
	Verified   bool      `json:"verified"`
	MFAEnabled bool      `json:"mfa_enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		Verified:   u.Verified,
		MFAEnabled: u.MFAEnabled(),
		CreatedAt:  u.CreatedAt,
	}
}

// SessionResponse describes one active session.
type SessionResponse struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip,omitempty"`
	Device    string    `json:"device,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Current   bool      `json:"current"`
}

// writeServiceError maps service sentinel errors to HTTP responses. Anything
// unrecognised is an infrastructure failure: logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMFARequired),
		errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrSessionRevoked):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrTokenAlreadyUsed),
		errors.Is(err, service.ErrMFAAlreadyEnabled),
		errors.Is(err, service.ErrMFANotEnrolled):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTokenNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrTokenExpired):
		status = http.StatusGone
	case errors.Is(err, service.ErrDeliveryFailure):
		status = http.StatusBadGateway
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
		return
	}
	httpx.WriteError(w, status, sentinelCode(err), "")
}

// sentinelCode unwraps joined errors down to the service sentinel's message.
func sentinelCode(err error) string {
	for _, sentinel := range []error{
		service.ErrInvalidCredentials, service.ErrMFARequired, service.ErrInvalidOTP,
		service.ErrUnauthorized, service.ErrSessionRevoked, service.ErrEmailInUse,
		service.ErrTokenNotFound, service.ErrTokenExpired, service.ErrTokenAlreadyUsed,
		service.ErrSessionNotFound, service.ErrUserNotFound, service.ErrDeliveryFailure,
		service.ErrMFAAlreadyEnabled, service.ErrMFANotEnrolled,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", desc)
}
