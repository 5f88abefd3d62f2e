package service

import (
	"context"
	"errors"

	"github.com/ridesafe/identity/internal/identity/domain"
)

// SessionResolver turns a bearer token into the account behind it.
type SessionResolver struct {
	Tokens   *TokenService
	Accounts *AccountService
}

// Resolve returns the principal for a session token. The role comes from
// the stored account, not the token, so a role change applies at once.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	a, err := r.Account(ctx, token)
	if err != nil {
		return domain.Principal{}, err
	}
	return a.Principal(), nil
}

// Account is Resolve returning the whole account. A deleted account or a
// token minted before the last password change, role change or sign-out
// everywhere is ErrInvalidSession.
func (r *SessionResolver) Account(ctx context.Context, token string) (domain.Account, error) {
	claims, err := r.Tokens.VerifySession(token)
	if err != nil {
		return domain.Account{}, err
	}
	a, err := r.Accounts.FindByID(ctx, claims.AccountID)
	if errors.Is(err, ErrAccountNotFound) {
		return domain.Account{}, ErrInvalidSession
	}
	if err != nil {
		return domain.Account{}, err
	}
	if a.Security.TokenVersion != claims.TokenVersion {
		return domain.Account{}, ErrInvalidSession
	}
	return a, nil
}
