package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/mailer"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/ridesafe/identity/pkg/slogx"
)

// ForgotPasswordMessage is returned whether or not the email matched.
const ForgotPasswordMessage = "If an account exists for that email, a reset link has been sent"

// AuthService orchestrates registration and every sign-in flow.
type AuthService struct {
	Accounts *AccountService
	Tokens   *TokenService
	MFA      *MFAService
	OAuth    *OAuthService
	Mailer   mailer.Mailer

	// MailTimeout bounds a background reset-mail dispatch.
	MailTimeout time.Duration

	mail sync.WaitGroup
}

// Register creates a local rider and signs them in.
func (s *AuthService) Register(ctx context.Context, r domain.Registration) (domain.Session, error) {
	a, err := s.Accounts.Create(ctx, NewAccount{
		Username:        r.Username,
		Email:           r.Email,
		ContactNumber:   r.ContactNumber,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		DeviceID:        r.DeviceID,
		Role:            domain.RoleRider,
		AuthProvider:    domain.ProviderLocal,
	})
	if err != nil {
		return domain.Session{}, err
	}
	return s.session(a, true)
}

// Login signs in with an email or username. An unknown identifier, an
// account without a password and a wrong password all produce
// ErrInvalidCredentials, and all pay for one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, identifier, password, code string) (domain.Session, error) {
	a, err := s.Accounts.FindForLogin(ctx, identifier)
	return s.passwordLogin(ctx, a, err, password, code, ErrInvalidCredentials)
}

// AdminLogin is Login restricted to administrators. A rider with valid
// credentials gets ErrInvalidAdminCredentials like anyone else.
func (s *AuthService) AdminLogin(ctx context.Context, identifier, password, code string) (domain.Session, error) {
	a, err := s.Accounts.FindAdminForLogin(ctx, identifier)
	return s.passwordLogin(ctx, a, err, password, code, ErrInvalidAdminCredentials)
}

func (s *AuthService) passwordLogin(ctx context.Context, a domain.Account, lookupErr error, password, code string, denied error) (domain.Session, error) {
	l := slogx.FromContext(ctx)
	hasher := s.Accounts.Hasher

	switch {
	case errors.Is(lookupErr, ErrAccountNotFound):
		_, _ = hasher.Verify(password, hasher.DummyHash())
		l.InfoContext(ctx, "login failed", "reason", "unknown identifier")
		return domain.Session{}, denied
	case lookupErr != nil:
		return domain.Session{}, lookupErr
	case !a.HasPassword():
		_, _ = hasher.Verify(password, hasher.DummyHash())
		l.InfoContext(ctx, "login failed", "reason", "no password", "account_id", a.ID)
		return domain.Session{}, denied
	}

	ok, err := hasher.Verify(password, a.PasswordHash)
	if err != nil {
		l.ErrorContext(ctx, "stored password hash unreadable", "account_id", a.ID, "error", err)
		return domain.Session{}, denied
	}
	if !ok {
		l.InfoContext(ctx, "login failed", "reason", "bad password", "account_id", a.ID)
		return domain.Session{}, denied
	}

	if err := s.checkSecondFactor(ctx, a, code, denied); err != nil {
		return domain.Session{}, err
	}

	l.InfoContext(ctx, "login succeeded", "account_id", a.ID)
	return s.session(a, false)
}

// checkSecondFactor applies the 2FA rule shared by every sign-in: no code
// asks for one, a wrong code is a plain credential failure.
func (s *AuthService) checkSecondFactor(ctx context.Context, a domain.Account, code string, denied error) error {
	if !a.TwoFactor.Enabled {
		return nil
	}
	if strings.TrimSpace(code) == "" {
		return ErrTwoFactorRequired
	}
	ok, err := s.MFA.VerifySecondFactor(ctx, a, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if !ok {
		slogx.FromContext(ctx).InfoContext(ctx, "login failed", "reason", "bad second factor", "account_id", a.ID)
		return denied
	}
	return nil
}

// GoogleLogin verifies a Google ID token, links or creates the account and
// signs it in.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken, code string) (domain.Session, error) {
	as, err := s.OAuth.VerifyAssertion(ctx, idToken)
	if err != nil {
		return domain.Session{}, err
	}
	a, created, err := s.OAuth.LinkOrCreate(ctx, as)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.checkSecondFactor(ctx, a, code, ErrInvalidCredentials); err != nil {
		return domain.Session{}, err
	}
	return s.session(a, created)
}

func (s *AuthService) session(a domain.Account, isNew bool) (domain.Session, error) {
	token, err := s.Tokens.IssueSession(a)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, Account: a, IsNewUser: isNew}, nil
}

// ForgotPassword issues a reset token for a matching account and mails it in
// the background. It never fails and never says whether the email matched.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) {
	l := slogx.FromContext(ctx)

	email = NormaliseEmail(email)
	if email == "" {
		return
	}
	a, err := s.Accounts.FindByEmailOrUsername(ctx, email, "")
	if err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			l.ErrorContext(ctx, "forgot password lookup failed", "error", err)
		}
		return
	}

	token, err := s.Tokens.IssueResetToken(ctx, a.ID)
	if err != nil {
		l.ErrorContext(ctx, "issue reset token failed", "account_id", a.ID, "error", err)
		return
	}

	timeout := s.MailTimeout
	if timeout <= 0 {
		timeout = mailer.DefaultTimeout
	}
	mctx := context.WithoutCancel(ctx)

	s.mail.Add(1)
	go func() {
		defer s.mail.Done()
		mctx, cancel := context.WithTimeout(mctx, timeout)
		defer cancel()
		if err := s.Mailer.SendPasswordReset(mctx, a.Email, a.Username, token); err != nil {
			l.ErrorContext(mctx, "reset email not sent", "account_id", a.ID, "error", err)
			return
		}
		l.InfoContext(mctx, "reset email sent", "account_id", a.ID)
	}()
}

// WaitMail blocks until background reset mails have finished.
func (s *AuthService) WaitMail() { s.mail.Wait() }

// ResetPassword sets a new password from a mailed token. The write only
// lands if the token is still on file and unexpired, so a token works once.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	accountID, err := s.Tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	if err := validationError(s.Accounts.Validator.NewPassword(password, confirm)); err != nil {
		return err
	}

	hash, err := s.Accounts.Hasher.Hash(password)
	if err != nil {
		return classify(err)
	}

	sctx, cancel := withTimeout(ctx, s.Accounts.Timeout)
	defer cancel()
	err = s.Accounts.Store.Accounts().ResetPassword(sctx, accountID, cryptox.FingerprintToken(token), hash, s.Accounts.now())
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return classify(err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "password reset", "account_id", accountID)
	return nil
}

// ChangePassword replaces the password of a signed-in account. Every other
// session ends; the returned token is the only one still valid.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, password, confirm string) (string, error) {
	a, err := s.Accounts.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !a.HasPassword() {
		return "", ErrNoPasswordSet
	}
	ok, err := s.Accounts.Hasher.Verify(current, a.PasswordHash)
	if err != nil || !ok {
		return "", ErrIncorrectPassword
	}
	if err := validationError(s.Accounts.Validator.NewPassword(password, confirm)); err != nil {
		return "", err
	}

	hash, err := s.Accounts.Hasher.Hash(password)
	if err != nil {
		return "", classify(err)
	}
	updated, err := s.Accounts.mutate(ctx, accountID, func(_ context.Context, _ store.Tx, acc *domain.Account) error {
		acc.PasswordHash = hash
		acc.Security.TokenVersion++
		return nil
	})
	if err != nil {
		return "", err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "password changed", "account_id", accountID)
	return s.Tokens.IssueSession(updated)
}
