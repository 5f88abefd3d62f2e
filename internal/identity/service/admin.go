package service

import (
	"context"
	"strings"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/pkg/slogx"
)

// AdminService is account management for administrators. Callers are
// already authorised; the only rule enforced here is that an admin cannot
// change their own role.
type AdminService struct {
	Accounts *AccountService
}

func (s *AdminService) ListUsers(ctx context.Context, includeAdmins bool) ([]domain.Account, error) {
	return s.Accounts.FindAll(ctx, includeAdmins)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (domain.Account, error) {
	return s.Accounts.FindByID(ctx, id)
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error) {
	a, err := s.Accounts.Update(ctx, id, patch)
	if err != nil {
		return domain.Account{}, err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "account updated by admin", "account_id", id)
	return a, nil
}

// SetRole changes an account's role and ends its sessions.
func (s *AdminService) SetRole(ctx context.Context, actorID, id, role string) (domain.Account, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return domain.Account{}, apperror.NewValidation("Validation failed", violation("role", "Role must be rider or admin"))
	}
	if actorID == id {
		return domain.Account{}, ErrOwnRoleChange
	}

	a, err := s.Accounts.mutate(ctx, id, func(_ context.Context, _ store.Tx, a *domain.Account) error {
		if a.Role.Is(r) {
			return nil
		}
		a.Role = r
		a.Security.TokenVersion++
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "role changed", "account_id", id, "role", string(r), "actor_id", actorID)
	return a, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actorID, id string) error {
	if err := s.Accounts.Delete(ctx, id); err != nil {
		return err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "account deleted by admin", "account_id", id, "actor_id", actorID)
	return nil
}

// Promote makes the account with the given email or username an admin.
// It backs the "promote" command, which has no acting account.
func (s *AdminService) Promote(ctx context.Context, identifier string) (domain.Account, error) {
	a, err := s.Accounts.FindForLogin(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return domain.Account{}, err
	}
	return s.SetRole(ctx, "", a.ID, string(domain.RoleAdmin))
}
