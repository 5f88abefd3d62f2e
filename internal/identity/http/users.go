package http

import (
	"net/http"
	"strconv"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/pkg/identitysdk"
)

// UsersHandler serves the administrator account endpoints.
type UsersHandler struct {
	Admin *service.AdminService
}

// HandleList handles GET /users
//
//	@Summary		List accounts
//	@Description	Lists accounts, newest first. Administrators are left out unless includeAdmins=true.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			includeAdmins	query		bool							false	"Include administrators"
//	@Success		200				{object}	identitysdk.AccountsResponse	"Accounts"
//	@Failure		403				{object}	identitysdk.ErrorResponse		"Admin access required"
//	@Router			/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	includeAdmins := false
	if raw := r.URL.Query().Get("includeAdmins"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(w, r, apperror.NewValidation("includeAdmins must be true or false",
				apperror.Violation{Field: "includeAdmins", Message: "includeAdmins must be true or false"}))
			return
		}
		includeAdmins = v
	}

	accounts, err := h.Admin.ListUsers(r.Context(), includeAdmins)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AccountsResponse{
		Success:  true,
		Count:    len(accounts),
		Accounts: toAccounts(accounts),
	})
}

// HandleGet handles GET /users/{id}
//
//	@Summary		Get an account
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Account id"
//	@Success		200	{object}	identitysdk.AccountResponse	"Account"
//	@Failure		404	{object}	identitysdk.ErrorResponse	"Account not found"
//	@Router			/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.Admin.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AccountResponse{Success: true, Account: toAccount(a)})
}

// HandleUpdate handles PUT /users/{id}
//
//	@Summary		Update an account
//	@Description	Changes only the fields present. Administrators may also set a password and the verification flags.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Account id"
//	@Param			request	body		identitysdk.UpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	identitysdk.AccountResponse		"Updated account"
//	@Failure		400		{object}	identitysdk.ErrorResponse		"Validation failed"
//	@Failure		404		{object}	identitysdk.ErrorResponse		"Account not found"
//	@Failure		409		{object}	identitysdk.ErrorResponse		"Email or username taken"
//	@Router			/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	a, err := h.Admin.UpdateUser(r.Context(), r.PathValue("id"), accountPatch(req))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AccountResponse{
		Success: true,
		Message: "User updated",
		Account: toAccount(a),
	})
}

// HandleSetRole handles PUT /users/{id}/role
//
//	@Summary		Change an account's role
//	@Description	Sets the role to rider or admin. The account's sessions end when the role changes.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Account id"
//	@Param			request	body		identitysdk.SetRoleRequest	true	"New role"
//	@Success		200		{object}	identitysdk.AccountResponse	"Updated account"
//	@Failure		400		{object}	identitysdk.ErrorResponse	"Unknown role"
//	@Failure		403		{object}	identitysdk.ErrorResponse	"Own role cannot be changed"
//	@Router			/users/{id}/role [put].
func (h *UsersHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req identitysdk.SetRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	a, err := h.Admin.SetRole(r.Context(), p.ID, r.PathValue("id"), req.Role)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AccountResponse{
		Success: true,
		Message: "Role updated",
		Account: toAccount(a),
	})
}

// HandleDelete handles DELETE /users/{id}
//
//	@Summary		Delete an account
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Account id"
//	@Success		200	{object}	identitysdk.MessageResponse	"Account deleted"
//	@Failure		404	{object}	identitysdk.ErrorResponse	"Account not found"
//	@Router			/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Admin.DeleteUser(r.Context(), p.ID, r.PathValue("id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Success: true, Message: "User deleted"})
}
