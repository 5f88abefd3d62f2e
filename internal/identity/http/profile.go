package http

import (
	"net/http"

	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/pkg/identitysdk"
)

// ProfileHandler serves self-service account management.
type ProfileHandler struct {
	Profile *service.ProfileService
	Auth    *service.AuthService
}

// HandleUpdate handles PUT /profile
//
//	@Summary		Update own profile
//	@Description	Changes only the fields present. Changing the phone number clears phone verification.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	identitysdk.AccountResponse			"Updated account"
//	@Failure		400		{object}	identitysdk.ErrorResponse			"Validation failed"
//	@Failure		409		{object}	identitysdk.ErrorResponse			"Email or username taken"
//	@Router			/profile [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req identitysdk.UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	a, err := h.Profile.Update(r.Context(), p.ID, accountPatch(req))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AccountResponse{
		Success: true,
		Message: "Profile updated",
		Account: toAccount(a),
	})
}

// HandleChangePassword handles PUT /profile/password
//
//	@Summary		Change password
//	@Description	Needs the current password. Every existing session ends; the response carries a fresh token.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	identitysdk.PasswordChangedResponse	"New token"
//	@Failure		400		{object}	identitysdk.ErrorResponse			"Wrong current password or weak new password"
//	@Router			/profile/password [put].
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req identitysdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	token, err := h.Auth.ChangePassword(r.Context(), p.ID, req.CurrentPassword, req.Password, req.ConfirmPassword)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.PasswordChangedResponse{
		Success: true,
		Message: "Password changed",
		Token:   token,
	})
}

// HandleDelete handles DELETE /profile
//
//	@Summary		Delete own account
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	identitysdk.MessageResponse	"Account deleted"
//	@Failure		401	{object}	identitysdk.ErrorResponse	"Invalid or expired token"
//	@Router			/profile [delete].
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.Profile.Delete(r.Context(), p.ID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Success: true, Message: "Account deleted"})
}
