package service

import (
	"context"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/pkg/slogx"
)

// ProfileService is self-service account management.
type ProfileService struct {
	Accounts *AccountService
}

// Update applies a rider's own changes. Verification flags and the password
// have their own flows and are refused here.
func (s *ProfileService) Update(ctx context.Context, accountID string, patch domain.AccountPatch) (domain.Account, error) {
	var vs []apperror.Violation
	if patch.Password != nil {
		vs = append(vs, violation("password", "Use the change password endpoint"))
	}
	if patch.EmailVerified != nil || patch.PhoneVerified != nil {
		vs = append(vs, violation("verified", "Verification status cannot be set directly"))
	}
	if err := validationError(vs); err != nil {
		return domain.Account{}, err
	}

	a, err := s.Accounts.Update(ctx, accountID, patch)
	if err != nil {
		return domain.Account{}, err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "profile updated", "account_id", accountID)
	return a, nil
}

// Delete soft-deletes the caller's own account.
func (s *ProfileService) Delete(ctx context.Context, accountID string) error {
	return s.Accounts.Delete(ctx, accountID)
}
