package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/ridesafe/identity/pkg/idx"
	"github.com/ridesafe/identity/pkg/slogx"
)

// maxMutateAttempts bounds optimistic retries on a contended account.
const maxMutateAttempts = 3

// NewAccount is the input for creating an account. Password and
// ConfirmPassword are required for local accounts and ignored for Google
// accounts.
type NewAccount struct {
	Username        string
	Email           string
	ContactNumber   string
	Password        string
	ConfirmPassword string
	DeviceID        string
	Picture         string
	Role            domain.Role
	AuthProvider    domain.AuthProvider
	GoogleID        string
	EmailVerified   bool
}

// AccountService owns the account lifecycle: validation, uniqueness and
// versioned read-modify-write over store.Accounts.
type AccountService struct {
	Store     store.Store
	Hasher    *cryptox.Hasher
	Validator *Validator
	Timeout   time.Duration
	Now       func() time.Time
}

func NewAccountService(st store.Store, hasher *cryptox.Hasher, v *Validator, timeout time.Duration) *AccountService {
	return &AccountService{Store: st, Hasher: hasher, Validator: v, Timeout: timeout, Now: time.Now}
}

func (s *AccountService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create validates every field, checks uniqueness and inserts the account.
func (s *AccountService) Create(ctx context.Context, in NewAccount) (domain.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = NormaliseEmail(in.Email)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	if in.AuthProvider == "" {
		in.AuthProvider = domain.ProviderLocal
	}
	if in.Role == "" {
		in.Role = domain.RoleRider
	}

	if err := validationError(s.validateNew(in)); err != nil {
		return domain.Account{}, err
	}

	if _, err := s.FindByEmailOrUsername(ctx, in.Email, ""); err == nil {
		return domain.Account{}, ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return domain.Account{}, err
	}
	if _, err := s.FindByEmailOrUsername(ctx, "", in.Username); err == nil {
		return domain.Account{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return domain.Account{}, err
	}

	var hash string
	if in.AuthProvider == domain.ProviderLocal {
		h, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return domain.Account{}, classify(err)
		}
		hash = h
	}

	a := s.build(in, hash)
	if err := s.insert(ctx, a); err != nil {
		// A concurrent insert can still win the race past the checks above;
		// the unique indexes turn that into a conflict here.
		return domain.Account{}, classify(err)
	}

	slogx.FromContext(ctx).InfoContext(ctx, "account created",
		"account_id", a.ID, "provider", string(a.AuthProvider))
	return a, nil
}

func (s *AccountService) validateNew(in NewAccount) []apperror.Violation {
	var out []apperror.Violation
	out = append(out, s.Validator.Username("username", in.Username)...)
	out = append(out, s.Validator.Email("email", in.Email)...)

	if in.AuthProvider == domain.ProviderLocal {
		out = append(out, s.Validator.ContactNumber("contactNumber", in.ContactNumber)...)
		out = append(out, s.Validator.NewPassword(in.Password, in.ConfirmPassword)...)
	} else if in.ContactNumber != "" {
		out = append(out, s.Validator.ContactNumber("contactNumber", in.ContactNumber)...)
	}
	if _, ok := domain.ParseRole(string(in.Role)); !ok {
		out = append(out, violation("role", "Role must be rider or admin"))
	}
	return out
}

func (s *AccountService) build(in NewAccount, passwordHash string) domain.Account {
	now := s.now()
	return domain.Account{
		ID:            idx.NewAt(now).String(),
		Username:      in.Username,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
		PasswordHash:  passwordHash,
		Role:          in.Role,
		AuthProvider:  in.AuthProvider,
		GoogleID:      in.GoogleID,
		Picture:       in.Picture,
		DeviceID:      in.DeviceID,
		EmailVerified: in.EmailVerified,
		Security:      domain.Security{Visibility: domain.VisibilityPrivate},
		Contacts:      []domain.Contact{},
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// insert writes a built account and returns raw store errors so callers can
// react to which unique field collided.
func (s *AccountService) insert(ctx context.Context, a domain.Account) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Store.Accounts().Create(ctx, a)
}

// FindByID returns a live account.
func (s *AccountService) FindByID(ctx context.Context, id string) (domain.Account, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	return notFoundAs(s.Store.Accounts().GetByID(ctx, id))
}

// FindByEmailOrUsername checks email first, then username. Empty criteria
// are skipped.
func (s *AccountService) FindByEmailOrUsername(ctx context.Context, email, username string) (domain.Account, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	if email = NormaliseEmail(email); email != "" {
		a, err := s.Store.Accounts().GetByEmail(ctx, email)
		if !errors.Is(err, store.ErrNotFound) {
			return notFoundAs(a, err)
		}
	}
	if username = strings.TrimSpace(username); username != "" {
		return notFoundAs(s.Store.Accounts().GetByUsername(ctx, username))
	}
	return domain.Account{}, ErrAccountNotFound
}

// FindForLogin resolves an identifier that may be an email or a username.
func (s *AccountService) FindForLogin(ctx context.Context, identifier string) (domain.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.Account{}, ErrAccountNotFound
	}
	return s.FindByEmailOrUsername(ctx, identifier, identifier)
}

// FindAdminForLogin is FindForLogin restricted to administrators. A rider
// is reported as not found.
func (s *AccountService) FindAdminForLogin(ctx context.Context, identifier string) (domain.Account, error) {
	a, err := s.FindForLogin(ctx, identifier)
	if err != nil {
		return domain.Account{}, err
	}
	if !a.Role.Is(domain.RoleAdmin) {
		return domain.Account{}, ErrAccountNotFound
	}
	return a, nil
}

// FindAll lists live accounts, riders only unless includeAdmins is set.
func (s *AccountService) FindAll(ctx context.Context, includeAdmins bool) ([]domain.Account, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	accounts, err := s.Store.Accounts().List(ctx, includeAdmins)
	if err != nil {
		return nil, classify(err)
	}
	return accounts, nil
}

// Update merges the patch into the account. A password in the patch is
// re-hashed and bumps the token version so existing sessions end.
func (s *AccountService) Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error) {
	if patch.IsEmpty() {
		return domain.Account{}, ErrEmptyUpdate
	}
	patch = normalisePatch(patch)
	if err := validationError(s.validatePatch(patch)); err != nil {
		return domain.Account{}, err
	}

	if err := s.checkUnique(ctx, id, patch); err != nil {
		return domain.Account{}, err
	}

	var hash string
	if patch.Password != nil {
		h, err := s.Hasher.Hash(*patch.Password)
		if err != nil {
			return domain.Account{}, classify(err)
		}
		hash = h
	}

	return s.mutate(ctx, id, func(_ context.Context, _ store.Tx, a *domain.Account) error {
		applyPatch(a, patch)
		if hash != "" {
			a.PasswordHash = hash
			a.Security.TokenVersion++
		}
		return nil
	})
}

func normalisePatch(p domain.AccountPatch) domain.AccountPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	p.Username = trim(p.Username)
	p.ContactNumber = trim(p.ContactNumber)
	p.Picture = trim(p.Picture)
	p.DeviceID = trim(p.DeviceID)
	if p.Email != nil {
		e := NormaliseEmail(*p.Email)
		p.Email = &e
	}
	return p
}

func (s *AccountService) validatePatch(p domain.AccountPatch) []apperror.Violation {
	var out []apperror.Violation
	if p.Username != nil {
		out = append(out, s.Validator.Username("username", *p.Username)...)
	}
	if p.Email != nil {
		out = append(out, s.Validator.Email("email", *p.Email)...)
	}
	if p.ContactNumber != nil {
		out = append(out, s.Validator.ContactNumber("contactNumber", *p.ContactNumber)...)
	}
	if p.Password != nil {
		out = append(out, s.Validator.Password("password", *p.Password)...)
	}
	if p.Picture != nil && *p.Picture != "" {
		out = append(out, s.Validator.Field("picture", *p.Picture, "url,max=2048")...)
	}
	if p.DeviceID != nil {
		out = append(out, s.Validator.Field("deviceId", *p.DeviceID, "max=128")...)
	}
	if p.Visibility != nil {
		out = append(out, s.Validator.Visibility("visibility", *p.Visibility)...)
	}
	return out
}

// checkUnique rejects an email or username already held by another account.
func (s *AccountService) checkUnique(ctx context.Context, id string, p domain.AccountPatch) error {
	if p.Email != nil {
		other, err := s.FindByEmailOrUsername(ctx, *p.Email, "")
		switch {
		case err == nil && other.ID != id:
			return ErrEmailTaken
		case err != nil && !errors.Is(err, ErrAccountNotFound):
			return err
		}
	}
	if p.Username != nil {
		other, err := s.FindByEmailOrUsername(ctx, "", *p.Username)
		switch {
		case err == nil && other.ID != id:
			return ErrUsernameTaken
		case err != nil && !errors.Is(err, ErrAccountNotFound):
			return err
		}
	}
	return nil
}

func applyPatch(a *domain.Account, p domain.AccountPatch) {
	if p.Username != nil {
		a.Username = *p.Username
	}
	if p.Email != nil && *p.Email != a.Email {
		a.Email = *p.Email
		a.EmailVerified = false
	}
	if p.ContactNumber != nil && *p.ContactNumber != a.ContactNumber {
		a.ContactNumber = *p.ContactNumber
		a.PhoneVerified = false
	}
	if p.Picture != nil {
		a.Picture = *p.Picture
	}
	if p.DeviceID != nil {
		a.DeviceID = *p.DeviceID
	}
	if p.EmailVerified != nil {
		a.EmailVerified = *p.EmailVerified
	}
	if p.PhoneVerified != nil {
		a.PhoneVerified = *p.PhoneVerified
	}
	if p.Visibility != nil {
		a.Security.Visibility = *p.Visibility
	}
}

// Delete soft-deletes the account. Email and username are rewritten so they
// can be registered again, the Google link is dropped and every session
// issued so far stops resolving.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	now := s.now()
	_, err := s.mutate(ctx, id, func(ctx context.Context, tx store.Tx, a *domain.Account) error {
		a.Email = "deleted+" + a.ID + "@deleted.invalid"
		a.Username = "deleted " + idx.ID(a.ID).Suffix(8)
		a.GoogleID = ""
		a.ResetTokenHash = ""
		a.ResetTokenExpiresAt = nil
		a.TwoFactor = domain.TwoFactor{}
		a.Security.TokenVersion++
		a.DeletedAt = &now
		return tx.BackupCodes().DeleteAll(ctx, a.ID)
	})
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).InfoContext(ctx, "account deleted", "account_id", id)
	return nil
}

// mutate is the read-modify-write primitive. fn edits the account inside a
// transaction and the write only lands if nobody else wrote in between;
// otherwise the whole cycle is retried a bounded number of times.
func (s *AccountService) mutate(ctx context.Context, id string, fn func(ctx context.Context, tx store.Tx, a *domain.Account) error) (domain.Account, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	for attempt := 1; attempt <= maxMutateAttempts; attempt++ {
		var updated domain.Account
		err := s.Store.WithTx(ctx, func(tx store.Tx) error {
			a, err := tx.Accounts().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if err := fn(ctx, tx, &a); err != nil {
				return err
			}
			updated, err = tx.Accounts().Update(ctx, a)
			return err
		})
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, store.ErrStale):
			slogx.FromContext(ctx).DebugContext(ctx, "account write lost a race, retrying",
				"account_id", id, "attempt", attempt)
			continue
		case errors.Is(err, store.ErrNotFound):
			return domain.Account{}, ErrAccountNotFound
		default:
			return domain.Account{}, classify(err)
		}
	}
	return domain.Account{}, ErrConcurrentModification
}

func notFoundAs(a domain.Account, err error) (domain.Account, error) {
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, classify(err)
	}
	return a, nil
}
