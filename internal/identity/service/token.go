package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/ridesafe/identity/pkg/jwtx"
	"github.com/ridesafe/identity/pkg/slogx"
)

// ResetTokenTTL is how long a mailed reset link stays usable.
const ResetTokenTTL = time.Hour

// SessionClaims is what a verified session token asserts.
type SessionClaims struct {
	AccountID    string
	Role         domain.Role
	TokenVersion int
	ExpiresAt    time.Time
}

type TokenService struct {
	Signer     *jwtx.HS256
	Store      store.Store
	Issuer     string
	SessionTTL time.Duration
	ResetTTL   time.Duration
	Timeout    time.Duration
	Now        func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// IssueSession mints a session token for the account's current role and
// token version.
func (s *TokenService) IssueSession(a domain.Account) (string, error) {
	claims := jwtx.NewSessionClaims(a.ID, string(a.Role), a.Security.TokenVersion, s.SessionTTL, s.Issuer, s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", classify(fmt.Errorf("issue session: %w", err))
	}
	return token, nil
}

// VerifySession checks signature, issuer and expiry. Every failure is
// ErrInvalidSession; callers cannot tell a bad signature from an expired
// token.
func (s *TokenService) VerifySession(token string) (SessionClaims, error) {
	if token == "" {
		return SessionClaims{}, ErrInvalidSession
	}
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return SessionClaims{}, ErrInvalidSession
	}
	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return SessionClaims{}, ErrInvalidSession
	}
	out := SessionClaims{
		AccountID:    claims.Subject,
		Role:         role,
		TokenVersion: claims.TokenVersion,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// IssueResetToken generates a random reset token and stores its
// fingerprint, replacing any earlier token. The plaintext is returned for
// mailing and never stored.
func (s *TokenService) IssueResetToken(ctx context.Context, accountID string) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", classify(err)
	}

	ttl := s.ResetTTL
	if ttl <= 0 {
		ttl = ResetTokenTTL
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	err = s.Store.Accounts().SetResetToken(ctx, accountID, cryptox.FingerprintToken(token), s.now().Add(ttl))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", classify(err)
	}
	return token, nil
}

// ConsumeResetToken resolves a reset token to its account. An expired token
// is cleared as a side effect and reported invalid. A live token is left in
// place; the caller clears it once the password change has landed.
func (s *TokenService) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidResetToken
	}
	fp := cryptox.FingerprintToken(token)

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	a, err := s.Store.Accounts().GetByResetTokenHash(ctx, fp)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidResetToken
	}
	if err != nil {
		return "", classify(err)
	}

	if a.ResetTokenExpiresAt == nil || !s.now().Before(*a.ResetTokenExpiresAt) {
		if err := s.Store.Accounts().ClearResetToken(ctx, a.ID, fp); err != nil {
			slogx.FromContext(ctx).WarnContext(ctx, "failed to clear expired reset token",
				"account_id", a.ID, "error", err)
		}
		return "", ErrInvalidResetToken
	}
	return a.ID, nil
}
