package http

import (
	"net/http"

	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/pkg/httpx"
)

// SessionsHandler lets users inspect and revoke their own sessions.
type SessionsHandler struct {
	SessionService *service.SessionService
}

// HandleList handles GET /v1/sessions
//
//	@Summary		List active sessions
//	@Description	Returns the caller's live sessions, newest first. The session
//	@Description	behind the presented access token is marked "current".
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		SessionResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/sessions [get].
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserID(ctx)
	current := httpx.SessionID(ctx)

	sessions, err := h.SessionService.ListActive(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionResponse{
			ID:        s.ID,
			IP:        s.IP,
			Device:    s.Device,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
			Current:   s.ID == current,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke handles DELETE /v1/sessions/{id}
//
//	@Summary		Revoke one session
//	@Description	Ends the named session. Only the caller's own sessions can be
//	@Description	revoked; anything else reports not found.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Session id"
//	@Success		204	"Session revoked"
//	@Failure		404	{object}	httpx.ErrorResponse	"Unknown session id"
//	@Router			/v1/sessions/{id} [delete].
func (h *SessionsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := r.PathValue("id")

	// A user may only touch their own sessions; a foreign id looks identical
	// to a missing one.
	sessions, err := h.SessionService.ListActive(ctx, httpx.UserID(ctx))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	owned := false
	for _, s := range sessions {
		if s.ID == sessionID {
			owned = true
			break
		}
	}
	if !owned {
		writeServiceError(w, r, service.ErrSessionNotFound)
		return
	}

	if err := h.SessionService.Revoke(ctx, sessionID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeAll handles DELETE /v1/sessions
//
//	@Summary		Revoke every session
//	@Description	Logs the user out everywhere, including the current session.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Success		204	"All sessions revoked"
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/sessions [delete].
func (h *SessionsHandler) HandleRevokeAll(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionService.RevokeAllForUser(r.Context(), httpx.UserID(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
