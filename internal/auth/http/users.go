package http

import (
	"net/http"
	"strings"

	"github.com/lanternsec/authd/internal/auth/service"
	"github.com/lanternsec/authd/pkg/httpx"
)

// UsersHandler serves user lookup and administration.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleMe handles GET /v1/users/me
//
//	@Summary		Get the current user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUserByID(r.Context(), httpx.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

type UpdateMeRequest struct {
	Name string `json:"name" example:"Alice"`
}

// HandleUpdateMe handles PATCH /v1/users/me
//
//	@Summary		Update the current user's profile
//	@Description	Replaces the display name. An empty name clears it.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateMeRequest	true	"Profile changes"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid request body"
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/users/me [patch].
func (h *UsersHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateMeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	user, err := h.UserService.UpdateName(r.Context(), httpx.UserID(r.Context()), strings.TrimSpace(req.Name))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

// HandleGet handles GET /v1/users/{id}
//
//	@Summary		Get a user by id
//	@Description	Admin only.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User id"
//	@Success		200	{object}	UserResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"Caller is not an admin"
//	@Failure		404	{object}	httpx.ErrorResponse	"Unknown user id"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

// HandleList handles GET /v1/users
//
//	@Summary		List all users
//	@Description	Admin only.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		UserResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"Caller is not an admin"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete handles DELETE /v1/users/{id}
//
//	@Summary		Delete a user
//	@Description	Admin only. Sessions and outstanding secrets cascade.
//	@Tags			Users
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User id"
//	@Success		204	"User deleted"
//	@Failure		403	{object}	httpx.ErrorResponse	"Caller is not an admin"
//	@Failure		404	{object}	httpx.ErrorResponse	"Unknown user id"
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.UserService.DeleteUser(ctx, httpx.UserID(ctx), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
