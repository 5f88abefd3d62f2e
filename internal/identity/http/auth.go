package http

import (
	"context"
	"net/http"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/pkg/identitysdk"
)

// AuthHandler serves the unauthenticated sign-in and recovery endpoints.
type AuthHandler struct {
	Auth     *service.AuthService
	Sessions *service.SessionResolver
}

// HandleRegister handles POST /register
//
//	@Summary		Register a rider
//	@Description	Creates a local rider account and signs it in. Every failed field rule is reported.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.RegisterRequest		true	"Registration details"
//	@Success		201		{object}	identitysdk.SessionResponse		"Token and account"
//	@Failure		400		{object}	identitysdk.ErrorResponse		"Validation failed"
//	@Failure		409		{object}	identitysdk.ErrorResponse		"Email or username taken"
//	@Router			/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	s, err := h.Auth.Register(r.Context(), domain.Registration{
		Username:        req.Username,
		Email:           req.Email,
		ContactNumber:   req.ContactNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		DeviceID:        req.DeviceID,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(s, "Account created"))
}

// HandleLogin handles POST /login
//
//	@Summary		Sign in
//	@Description	Signs in with an email or username and password. Accounts with 2FA also need a TOTP or backup code;
//	@Description	without one the response is 401 with twoFactorRequired set.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	identitysdk.SessionResponse	"Token and account"
//	@Failure		401		{object}	identitysdk.ErrorResponse	"Invalid credentials or code required"
//	@Router			/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.Auth.Login)
}

// HandleAdminLogin handles POST /admin/login
//
//	@Summary		Administrator sign in
//	@Description	Same as /login but only administrators can sign in here.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	identitysdk.SessionResponse	"Token and account"
//	@Failure		401		{object}	identitysdk.ErrorResponse	"Invalid admin credentials or code required"
//	@Router			/admin/login [post].
func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.Auth.AdminLogin)
}

type loginFunc func(ctx context.Context, identifier, password, code string) (domain.Session, error)

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, fn loginFunc) {
	var req identitysdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	s, err := fn(r.Context(), req.Identifier, req.Password, req.Code)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(s, "Login successful"))
}

// HandleGoogle handles POST /google
//
//	@Summary		Sign in with Google
//	@Description	Verifies a Google ID token, then signs in the linked account, links an account with the same email,
//	@Description	or creates a new rider. isNewUser reports the last case.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.GoogleLoginRequest	true	"Google ID token"
//	@Success		200		{object}	identitysdk.SessionResponse		"Token and account"
//	@Failure		401		{object}	identitysdk.ErrorResponse		"Invalid Google token"
//	@Failure		503		{object}	identitysdk.ErrorResponse		"Google keys unavailable"
//	@Router			/google [post].
func (h *AuthHandler) HandleGoogle(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.GoogleLoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if req.IDToken == "" {
		httpx.WriteError(w, r, apperror.NewValidation("Google ID token is required",
			apperror.Violation{Field: "idToken", Message: "Google ID token is required"}))
		return
	}

	s, err := h.Auth.GoogleLogin(r.Context(), req.IDToken, req.Code)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(s, "Login successful"))
}

// HandleForgotPassword handles POST /forgot-password
//
//	@Summary		Request a password reset
//	@Description	Mails a reset link when the email belongs to an account. The response is the same either way.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	identitysdk.MessageResponse			"Uniform acknowledgement"
//	@Router			/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.ForgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	h.Auth.ForgotPassword(r.Context(), req.Email)
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{
		Success: true,
		Message: service.ForgotPasswordMessage,
	})
}

// HandleResetPassword handles POST /reset-password
//
//	@Summary		Reset a password
//	@Description	Sets a new password with a mailed reset token. The token works once and signs out every session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.ResetPasswordRequest	true	"Token and new password"
//	@Success		200		{object}	identitysdk.MessageResponse			"Password reset"
//	@Failure		400		{object}	identitysdk.ErrorResponse			"Invalid or expired token, or weak password"
//	@Router			/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.Auth.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{
		Success: true,
		Message: "Password has been reset. Please sign in",
	})
}

// HandleVerify handles GET /verify
//
//	@Summary		Resolve the session
//	@Description	Returns the account behind the bearer token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	identitysdk.AccountResponse	"Current account"
//	@Failure		401	{object}	identitysdk.ErrorResponse	"Invalid or expired token"
//	@Router			/verify [get].
func (h *AuthHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.WriteError(w, r, service.ErrInvalidSession)
		return
	}

	a, err := h.Sessions.Account(r.Context(), token)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AccountResponse{Success: true, Account: toAccount(a)})
}
