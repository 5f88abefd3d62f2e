package http

import (
	"net/http"

	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/httpx"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/pkg/identitysdk"
)

// TwoFactorHandler drives the TOTP enrollment state machine.
type TwoFactorHandler struct {
	MFA      *service.MFAService
	Accounts *service.AccountService
}

func (h *TwoFactorHandler) account(w http.ResponseWriter, r *http.Request) (domain.Account, bool) {
	p, ok := principal(w, r)
	if !ok {
		return domain.Account{}, false
	}
	a, err := h.Accounts.FindByID(r.Context(), p.ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return domain.Account{}, false
	}
	return a, true
}

// HandleGenerate handles POST /2fa/generate
//
//	@Summary		Start 2FA enrollment
//	@Description	Returns a new TOTP secret, its otpauth URL and a QR code. Nothing changes until /2fa/verify.
//	@Tags			Two-factor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	identitysdk.TwoFactorSetupResponse	"Secret and QR code"
//	@Failure		409	{object}	identitysdk.ErrorResponse			"Already enabled"
//	@Failure		503	{object}	identitysdk.ErrorResponse			"Enrollment cache unavailable"
//	@Router			/2fa/generate [post].
func (h *TwoFactorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	a, ok := h.account(w, r)
	if !ok {
		return
	}

	e, err := h.MFA.BeginEnrollment(r.Context(), a)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.TwoFactorSetupResponse{
		Success: true,
		Secret:  e.Secret,
		URL:     e.URL,
		QRCode:  e.QRCode,
	})
}

// HandleVerify handles POST /2fa/verify
//
//	@Summary		Confirm 2FA enrollment
//	@Description	Enables 2FA when the code matches the pending secret. Backup codes are returned once.
//	@Tags			Two-factor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.CodeRequest			true	"TOTP code"
//	@Success		200		{object}	identitysdk.BackupCodesResponse	"Backup codes"
//	@Failure		400		{object}	identitysdk.ErrorResponse		"Invalid code or no pending setup"
//	@Router			/2fa/verify [post].
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	a, ok := h.account(w, r)
	if !ok {
		return
	}

	var req identitysdk.CodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	codes, err := h.MFA.ConfirmEnrollment(r.Context(), a, req.Code)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.BackupCodesResponse{
		Success:     true,
		Message:     "Two-factor authentication enabled",
		BackupCodes: codes,
	})
}

// HandleDisable handles POST /2fa/disable
//
//	@Summary		Disable 2FA
//	@Description	Needs the account password, or a current TOTP code for accounts without one.
//	@Tags			Two-factor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.DisableTwoFactorRequest	true	"Password or code"
//	@Success		200		{object}	identitysdk.MessageResponse			"Disabled"
//	@Failure		400		{object}	identitysdk.ErrorResponse			"Not enabled or wrong password"
//	@Router			/2fa/disable [post].
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	a, ok := h.account(w, r)
	if !ok {
		return
	}

	var req identitysdk.DisableTwoFactorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	if err := h.MFA.Disable(r.Context(), a, req.Password, req.Code); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{
		Success: true,
		Message: "Two-factor authentication disabled",
	})
}

// HandleBackupCodes handles POST /2fa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces every backup code. Needs a current TOTP code.
//	@Tags			Two-factor
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.CodeRequest			true	"TOTP code"
//	@Success		200		{object}	identitysdk.BackupCodesResponse	"New backup codes"
//	@Failure		400		{object}	identitysdk.ErrorResponse		"Invalid code or 2FA not enabled"
//	@Router			/2fa/backup-codes [post].
func (h *TwoFactorHandler) HandleBackupCodes(w http.ResponseWriter, r *http.Request) {
	a, ok := h.account(w, r)
	if !ok {
		return
	}

	var req identitysdk.CodeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	codes, err := h.MFA.RegenerateBackupCodes(r.Context(), a, req.Code)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.BackupCodesResponse{
		Success:     true,
		Message:     "Backup codes regenerated",
		BackupCodes: codes,
	})
}

// HandleStatus handles GET /2fa/status
//
//	@Summary		2FA status
//	@Tags			Two-factor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	identitysdk.TwoFactorStatusResponse	"Status"
//	@Router			/2fa/status [get].
func (h *TwoFactorHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := h.account(w, r)
	if !ok {
		return
	}

	st, err := h.MFA.Status(r.Context(), a)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.TwoFactorStatusResponse{
		Success:                  true,
		Enabled:                  st.Enabled,
		EnabledAt:                st.EnabledAt,
		BackupCodesRemaining:     st.BackupCodesRemaining,
		BackupCodesRegeneratedAt: st.BackupCodesRegeneratedAt,
	})
}
