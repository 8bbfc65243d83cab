package http

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/pkg/httpx"
)

// AuthHandler serves the credential endpoints: register, login, refresh and
// logout.
type AuthHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
	Sessions     *service.SessionService
}

type RegisterRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Name     string `json:"name,omitempty" example:"Alice"`
	Password string `json:"password" example:"correct-horse-battery"`
}

type RegisterResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register a new account
//	@Description	Creates a user and logs them in, returning their first token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration details"
//	@Success		201		{object}	RegisterResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid request body"
//	@Failure		409		{object}	httpx.ErrorResponse	"Email already registered"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if !validEmail(req.Email) {
		writeBadRequest(w, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	user, pair, err := h.UserService.Register(r.Context(), req.Email, req.Name, req.Password, clientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		User:   newUserResponse(user),
		Tokens: newTokenResponse(pair),
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"` // required when TOTP is enabled
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials and opens a new session. Accounts with TOTP
//	@Description	enabled must supply the current code in "otp".
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid credentials or missing/invalid OTP"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeBadRequest(w, "email and password are required")
		return
	}

	_, pair, err := h.UserService.Login(r.Context(), req.Email, req.Password, req.OTP, clientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Exchange a refresh token for a new pair
//	@Description	Rotates the session's refresh secret. The presented secret is
//	@Description	invalid after this call, whether it succeeds or not.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Current refresh token"
//	@Success		200		{object}	TokenResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Unknown, expired or revoked refresh token"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.RefreshToken == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), req.RefreshToken, clientIP(r), r.UserAgent())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Log out the current session
//	@Description	Revokes the session carried in the access token's sid claim.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sid := httpx.SessionID(r.Context())
	if sid == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token carries no session")
		return
	}

	if err := h.Sessions.Revoke(r.Context(), sid); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// clientIP strips the port from the peer address; proxies are handled by the
// rate limiter separately.
func clientIP(r *http.Request) string {
	if addr, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addr.Addr().String()
	}
	return r.RemoteAddr
}
