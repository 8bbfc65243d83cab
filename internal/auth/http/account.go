package http

import (
	"net/http"

	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/pkg/httpx"
)

// AccountHandler serves the email verification and password reset endpoints.
type AccountHandler struct {
	AccountService *service.AccountService
}

// HandleRequestVerifyEmail handles POST /v1/auth/verify-email/request
//
//	@Summary		Request an email verification link
//	@Description	Issues a single-use secret and emails it to the authenticated
//	@Description	user. A no-op if the address is already verified.
//	@Tags			Account
//	@Security		BearerAuth
//	@Success		202	"Verification email queued"
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Failure		502	{object}	httpx.ErrorResponse	"Email could not be delivered"
//	@Router			/v1/auth/verify-email/request [post].
func (h *AccountHandler) HandleRequestVerifyEmail(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserID(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "")
		return
	}

	if err := h.AccountService.RequestEmailVerification(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type ConfirmVerifyEmailRequest struct {
	Token string `json:"token"`
}

// HandleConfirmVerifyEmail handles POST /v1/auth/verify-email/confirm
//
//	@Summary		Confirm an email verification secret
//	@Description	Redeems the emailed secret and marks the owning account verified.
//	@Tags			Account
//	@Accept			json
//	@Success		204	"Email verified"
//	@Failure		404	{object}	httpx.ErrorResponse	"Unknown or already used secret"
//	@Failure		410	{object}	httpx.ErrorResponse	"Secret expired; request a new one"
//	@Router			/v1/auth/verify-email/confirm [post].
func (h *AccountHandler) HandleConfirmVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req ConfirmVerifyEmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Token == "" {
		writeBadRequest(w, "token is required")
		return
	}

	if err := h.AccountService.ConfirmEmailVerification(r.Context(), req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type RequestPasswordResetRequest struct {
	Email string `json:"email"`
}

// HandleRequestPasswordReset handles POST /v1/auth/password-reset/request
//
//	@Summary		Request a password reset link
//	@Description	Emails a single-use reset secret. Responds 202 whether or not
//	@Description	the address belongs to an account, so it cannot be used to
//	@Description	enumerate users.
//	@Tags			Account
//	@Accept			json
//	@Success		202	"Reset email queued (if the account exists)"
//	@Failure		502	{object}	httpx.ErrorResponse	"Email could not be delivered"
//	@Router			/v1/auth/password-reset/request [post].
func (h *AccountHandler) HandleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req RequestPasswordResetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Email == "" {
		writeBadRequest(w, "email is required")
		return
	}

	if err := h.AccountService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type ConfirmPasswordResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// HandleConfirmPasswordReset handles POST /v1/auth/password-reset/confirm
//
//	@Summary		Confirm a password reset
//	@Description	Redeems the emailed secret, replaces the password and revokes
//	@Description	every existing session of the account.
//	@Tags			Account
//	@Accept			json
//	@Success		204	"Password replaced"
//	@Failure		404	{object}	httpx.ErrorResponse	"Unknown or already used secret"
//	@Failure		410	{object}	httpx.ErrorResponse	"Secret expired; request a new one"
//	@Router			/v1/auth/password-reset/confirm [post].
func (h *AccountHandler) HandleConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPasswordResetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Token == "" {
		writeBadRequest(w, "token is required")
		return
	}
	if len(req.NewPassword) < 8 {
		writeBadRequest(w, "new_password must be at least 8 characters")
		return
	}

	if err := h.AccountService.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
