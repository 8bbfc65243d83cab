package http

import (
	"net/http"

	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/pkg/httpx"
)

// MFAHandler serves the TOTP second-factor endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

type TOTPEnrollResponse struct {
	Secret string `json:"secret"` // base32 TOTP secret, shown once
	URL    string `json:"url"`    // otpauth:// provisioning URL
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP
//	@Description	Stages a TOTP secret for the caller. Login keeps working without
//	@Description	a code until the secret is activated with a first valid one.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	TOTPEnrollResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Failure		409	{object}	httpx.ErrorResponse	"MFA already enabled"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	secret, url, err := h.MFAService.Enroll(r.Context(), httpx.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TOTPEnrollResponse{Secret: secret, URL: url})
}

type TOTPCodeRequest struct {
	Code string `json:"code" example:"123456"`
}

// HandleActivate handles POST /v1/mfa/totp/activate
//
//	@Summary		Activate the staged TOTP secret
//	@Description	Proves possession with a current code; from here on login
//	@Description	requires one.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	TOTPCodeRequest	true	"Current TOTP code"
//	@Success		204		"MFA enabled"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid code"
//	@Failure		409		{object}	httpx.ErrorResponse	"Already enabled or not enrolled"
//	@Router			/v1/mfa/totp/activate [post].
func (h *MFAHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req TOTPCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Code == "" {
		writeBadRequest(w, "code is required")
		return
	}

	if err := h.MFAService.Activate(r.Context(), httpx.UserID(r.Context()), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable handles POST /v1/mfa/totp/disable
//
//	@Summary		Disable TOTP
//	@Description	Removes the second factor. Requires a valid current code so a
//	@Description	stolen access token alone cannot strip MFA.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	TOTPCodeRequest	true	"Current TOTP code"
//	@Success		204		"MFA disabled"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid code"
//	@Failure		409		{object}	httpx.ErrorResponse	"MFA not enabled"
//	@Router			/v1/mfa/totp/disable [post].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	var req TOTPCodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Code == "" {
		writeBadRequest(w, "code is required")
		return
	}

	if err := h.MFAService.Disable(r.Context(), httpx.UserID(r.Context()), req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
