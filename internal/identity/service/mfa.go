package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/cache"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/ridesafe/identity/pkg/slogx"
)

const (
	backupCodeCount = 10

	totpPeriod = 30
	totpSkew   = 2 // steps either side, so +-60s
	qrSize     = 256
)

// MFAService runs the two-factor state machine:
//
//	Disabled -> Pending (secret in the pending cache) -> Enabled -> Disabled
//
// Nothing is written to the account until a code from the pending secret
// has been confirmed.
type MFAService struct {
	Accounts   *AccountService
	Store      store.Store
	Pending    cache.PendingEnrollments
	Hasher     *cryptox.Hasher
	Issuer     string
	PendingTTL time.Duration
	Now        func() time.Time
}

func (s *MFAService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// GenerateSecret creates a fresh TOTP secret with its provisioning URI and
// a QR code of that URI as a PNG data URL. Nothing is stored.
func (s *MFAService) GenerateSecret(label string) (domain.TwoFactorEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: label,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return domain.TwoFactorEnrollment{}, fmt.Errorf("encode qr code: %w", err)
	}

	return domain.TwoFactorEnrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyCode validates a 6 digit code against secret with two steps of
// skew. Malformed input is a plain false.
func (s *MFAService) VerifyCode(code, secret string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 6 || secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, s.now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// BeginEnrollment moves the account to Pending: a new secret is generated
// and parked in the pending cache. A second call replaces the first secret.
func (s *MFAService) BeginEnrollment(ctx context.Context, a domain.Account) (domain.TwoFactorEnrollment, error) {
	if a.TwoFactor.Enabled {
		return domain.TwoFactorEnrollment{}, ErrTwoFactorAlreadyEnabled
	}

	label := a.Email
	if label == "" {
		label = a.Username
	}
	enrollment, err := s.GenerateSecret(label)
	if err != nil {
		return domain.TwoFactorEnrollment{}, apperror.NewInternal(err)
	}

	if err := s.Pending.Put(ctx, a.ID, enrollment.Secret, s.pendingTTL()); err != nil {
		return domain.TwoFactorEnrollment{}, apperror.NewUnavailable(err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "two-factor enrollment started", "account_id", a.ID)
	return enrollment, nil
}

func (s *MFAService) pendingTTL() time.Duration {
	if s.PendingTTL <= 0 {
		return cache.PendingTwoFactorTTL
	}
	return s.PendingTTL
}

// ConfirmEnrollment completes Pending -> Enabled when code matches the
// pending secret and returns the plaintext backup codes, shown once. A wrong
// code discards the pending secret and leaves the account Disabled.
func (s *MFAService) ConfirmEnrollment(ctx context.Context, a domain.Account, code string) ([]string, error) {
	if a.TwoFactor.Enabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}

	secret, err := s.Pending.Get(ctx, a.ID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNoPendingEnrollment
	}
	if err != nil {
		return nil, apperror.NewUnavailable(err)
	}

	if !s.VerifyCode(code, secret) {
		s.dropPending(ctx, a.ID)
		return nil, ErrInvalidTOTPCode
	}

	codes, hashes, err := s.newBackupCodes()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	now := s.now()
	_, err = s.Accounts.mutate(ctx, a.ID, func(ctx context.Context, tx store.Tx, acc *domain.Account) error {
		if acc.TwoFactor.Enabled {
			return ErrTwoFactorAlreadyEnabled
		}
		acc.TwoFactor = domain.TwoFactor{Enabled: true, Secret: secret, EnabledAt: &now}
		acc.Security.BackupCodesRegeneratedAt = &now
		return tx.BackupCodes().ReplaceAll(ctx, acc.ID, hashes, now)
	})
	if err != nil {
		return nil, err
	}

	s.dropPending(ctx, a.ID)
	slogx.FromContext(ctx).InfoContext(ctx, "two-factor enabled", "account_id", a.ID)
	return codes, nil
}

func (s *MFAService) dropPending(ctx context.Context, accountID string) {
	if err := s.Pending.Delete(ctx, accountID); err != nil {
		slogx.FromContext(ctx).WarnContext(ctx, "failed to discard pending two-factor secret",
			"account_id", accountID, "error", err)
	}
}

// Disable moves Enabled -> Disabled. Accounts with a password must supply
// it; Google-only accounts prove presence with a current TOTP code instead.
func (s *MFAService) Disable(ctx context.Context, a domain.Account, password, code string) error {
	if !a.TwoFactor.Enabled {
		return ErrTwoFactorNotEnabled
	}

	if a.HasPassword() {
		ok, err := s.Hasher.Verify(password, a.PasswordHash)
		if err != nil {
			return apperror.NewInternal(err)
		}
		if !ok {
			return ErrIncorrectPassword
		}
	} else if !s.VerifyCode(code, a.TwoFactor.Secret) {
		return ErrInvalidTOTPCode
	}

	_, err := s.Accounts.mutate(ctx, a.ID, func(ctx context.Context, tx store.Tx, acc *domain.Account) error {
		acc.TwoFactor = domain.TwoFactor{}
		acc.Security.BackupCodesRegeneratedAt = nil
		return tx.BackupCodes().DeleteAll(ctx, acc.ID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "two-factor disabled", "account_id", a.ID)
	return nil
}

// GenerateBackupCodes returns backupCodeCount fresh recovery codes.
func (s *MFAService) GenerateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range codes {
		c, err := cryptox.GenerateBackupCode()
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}
	return codes, nil
}

func (s *MFAService) newBackupCodes() ([]string, []string, error) {
	codes, err := s.GenerateBackupCodes()
	if err != nil {
		return nil, nil, err
	}
	hashes := make([]string, len(codes))
	for i, c := range codes {
		h, err := s.Hasher.Hash(c)
		if err != nil {
			return nil, nil, err
		}
		hashes[i] = h
	}
	return codes, hashes, nil
}

// RegenerateBackupCodes replaces every backup code after checking a current
// TOTP code.
func (s *MFAService) RegenerateBackupCodes(ctx context.Context, a domain.Account, code string) ([]string, error) {
	if !a.TwoFactor.Enabled {
		return nil, ErrTwoFactorNotEnabled
	}
	if !s.VerifyCode(code, a.TwoFactor.Secret) {
		return nil, ErrInvalidTOTPCode
	}

	codes, hashes, err := s.newBackupCodes()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	now := s.now()
	_, err = s.Accounts.mutate(ctx, a.ID, func(ctx context.Context, tx store.Tx, acc *domain.Account) error {
		if !acc.TwoFactor.Enabled {
			return ErrTwoFactorNotEnabled
		}
		acc.Security.BackupCodesRegeneratedAt = &now
		return tx.BackupCodes().ReplaceAll(ctx, acc.ID, hashes, now)
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// ConsumeBackupCode marks the matching unused code as used. It reports
// false when no unused code matches, including when a concurrent request
// consumed the same code first.
func (s *MFAService) ConsumeBackupCode(ctx context.Context, accountID, code string) (bool, error) {
	code = cryptox.NormaliseBackupCode(code)
	if code == "" {
		return false, nil
	}

	ctx, cancel := withTimeout(ctx, s.Accounts.Timeout)
	defer cancel()

	unused, err := s.Store.BackupCodes().ListUnused(ctx, accountID)
	if err != nil {
		return false, classify(err)
	}
	for _, bc := range unused {
		ok, err := s.Hasher.Verify(code, bc.CodeHash)
		if err != nil || !ok {
			continue
		}
		used, err := s.Store.BackupCodes().MarkUsed(ctx, bc.ID, s.now())
		if err != nil {
			return false, classify(err)
		}
		if used {
			slogx.FromContext(ctx).InfoContext(ctx, "backup code used", "account_id", accountID)
		}
		return used, nil
	}
	return false, nil
}

// VerifySecondFactor accepts a TOTP code or an unused backup code.
func (s *MFAService) VerifySecondFactor(ctx context.Context, a domain.Account, code string) (bool, error) {
	if s.VerifyCode(code, a.TwoFactor.Secret) {
		return true, nil
	}
	return s.ConsumeBackupCode(ctx, a.ID, code)
}

// Status reports whether 2FA is on and how many backup codes remain.
func (s *MFAService) Status(ctx context.Context, a domain.Account) (domain.TwoFactorStatus, error) {
	st := domain.TwoFactorStatus{
		Enabled:                  a.TwoFactor.Enabled,
		EnabledAt:                a.TwoFactor.EnabledAt,
		BackupCodesRegeneratedAt: a.Security.BackupCodesRegeneratedAt,
	}
	if !a.TwoFactor.Enabled {
		return st, nil
	}

	ctx, cancel := withTimeout(ctx, s.Accounts.Timeout)
	defer cancel()

	n, err := s.Store.BackupCodes().CountUnused(ctx, a.ID)
	if err != nil {
		return domain.TwoFactorStatus{}, classify(err)
	}
	st.BackupCodesRemaining = n
	return st, nil
}
