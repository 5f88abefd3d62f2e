package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/oauth"
	"github.com/ridesafe/identity/internal/identity/store"
	"github.com/ridesafe/identity/pkg/slogx"
)

const (
	maxUsernameLength = 30
	minUsernameLength = 3

	// maxUsernameProbes bounds the suffix search for a free username.
	maxUsernameProbes = 100

	fallbackUsername = "rider"
)

// OAuthService links third-party identities to accounts.
type OAuthService struct {
	Verifier  oauth.Verifier
	Accounts  *AccountService
	Validator *Validator
	Timeout   time.Duration
}

// VerifyAssertion checks a Google ID token. Every verification failure is
// ErrInvalidGoogleToken; only an outage fetching Google's keys surfaces as
// Unavailable.
func (s *OAuthService) VerifyAssertion(ctx context.Context, idToken string) (domain.Assertion, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	a, err := s.Verifier.Verify(ctx, idToken)
	if err != nil {
		l := slogx.FromContext(ctx)
		if errors.Is(err, oauth.ErrKeysUnavailable) {
			l.ErrorContext(ctx, "google signing keys unavailable", "error", err)
			return domain.Assertion{}, apperror.NewUnavailable(err)
		}
		l.InfoContext(ctx, "google token rejected", "error", err)
		return domain.Assertion{}, ErrInvalidGoogleToken
	}
	return a, nil
}

// LinkOrCreate finds the account for an assertion, linking the Google
// subject on first use, or creates a new rider. The bool reports whether
// the account was created.
func (s *OAuthService) LinkOrCreate(ctx context.Context, as domain.Assertion) (domain.Account, bool, error) {
	// Only an address Google has verified may claim or create an account.
	if !as.EmailVerified {
		slogx.FromContext(ctx).InfoContext(ctx, "google token rejected", "error", "email not verified")
		return domain.Account{}, false, ErrInvalidGoogleToken
	}

	email := NormaliseEmail(as.Email)
	if vs := s.Validator.Email("email", email); len(vs) > 0 {
		return domain.Account{}, false, apperror.NewValidation("Email domain is not allowed", vs...)
	}

	existing, err := s.Accounts.FindByEmailOrUsername(ctx, email, "")
	switch {
	case err == nil:
		a, err := s.link(ctx, existing, as.SubjectID)
		return a, false, err
	case !errors.Is(err, ErrAccountNotFound):
		return domain.Account{}, false, err
	}

	// The Google subject may already be linked to an account whose email
	// has since changed.
	if byGoogle, err := s.findByGoogleID(ctx, as.SubjectID); err == nil {
		return byGoogle, false, nil
	} else if !errors.Is(err, ErrAccountNotFound) {
		return domain.Account{}, false, err
	}

	return s.create(ctx, email, as)
}

// link attaches googleID to an account that has none. An account already
// linked to a different subject is returned unchanged.
func (s *OAuthService) link(ctx context.Context, a domain.Account, googleID string) (domain.Account, error) {
	if a.GoogleID != "" {
		if a.GoogleID != googleID {
			slogx.FromContext(ctx).WarnContext(ctx, "google subject differs from linked subject, not relinking",
				"account_id", a.ID)
		}
		return a, nil
	}

	lctx, cancel := withTimeout(ctx, s.Timeout)
	err := s.Accounts.Store.Accounts().LinkGoogleID(lctx, a.ID, googleID)
	cancel()

	switch {
	case err == nil:
		slogx.FromContext(ctx).InfoContext(ctx, "google account linked", "account_id", a.ID)
	case errors.Is(err, store.ErrNotFound):
		// Lost a race with another link; re-read below.
	default:
		return domain.Account{}, classify(err)
	}
	return s.Accounts.FindByID(ctx, a.ID)
}

func (s *OAuthService) findByGoogleID(ctx context.Context, googleID string) (domain.Account, error) {
	if googleID == "" {
		return domain.Account{}, ErrAccountNotFound
	}
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	return notFoundAs(s.Accounts.Store.Accounts().GetByGoogleID(ctx, googleID))
}

// create inserts a Google account under the first free synthesised
// username. A username collision at insert time moves on to the next
// suffix; an email collision means another request created the account
// first, so that account is returned.
func (s *OAuthService) create(ctx context.Context, email string, as domain.Assertion) (domain.Account, bool, error) {
	base := SynthesiseUsername(as.Name, email)

	for n := 0; n < maxUsernameProbes; n++ {
		candidate := withSuffix(base, n)

		if _, err := s.Accounts.FindByEmailOrUsername(ctx, "", candidate); err == nil {
			continue
		} else if !errors.Is(err, ErrAccountNotFound) {
			return domain.Account{}, false, err
		}

		a := s.Accounts.build(NewAccount{
			Username:      candidate,
			Email:         email,
			Picture:       as.Picture,
			Role:          domain.RoleRider,
			AuthProvider:  domain.ProviderGoogle,
			GoogleID:      as.SubjectID,
			EmailVerified: as.EmailVerified,
		}, "")

		err := s.Accounts.insert(ctx, a)
		switch store.ConflictField(err) {
		case "":
			if err != nil {
				return domain.Account{}, false, classify(err)
			}
			slogx.FromContext(ctx).InfoContext(ctx, "account created", "account_id", a.ID, "provider", string(a.AuthProvider))
			return a, true, nil
		case "username":
			continue
		case "email", "google_id":
			existing, ferr := s.Accounts.FindByEmailOrUsername(ctx, email, "")
			if ferr != nil {
				return domain.Account{}, false, classify(err)
			}
			return existing, false, nil
		default:
			return domain.Account{}, false, classify(err)
		}
	}
	return domain.Account{}, false, ErrUsernameTaken
}

// SynthesiseUsername derives a username from a display name: characters
// outside [A-Za-z0-9 ] are dropped, spaces collapsed, and the result cut to
// 30 characters. Too short a result falls back to the email local part and
// then to "rider".
func SynthesiseUsername(displayName, email string) string {
	if u := cleanUsername(displayName); len(u) >= minUsernameLength {
		return u
	}
	local, _, _ := strings.Cut(email, "@")
	if u := cleanUsername(local); len(u) >= minUsernameLength {
		return u
	}
	return fallbackUsername
}

func cleanUsername(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case r == ' ':
			space = true
		}
	}
	out := b.String()
	if len(out) > maxUsernameLength {
		out = strings.TrimSpace(out[:maxUsernameLength])
	}
	return out
}

// withSuffix appends n (n > 0) keeping the result within the length limit.
func withSuffix(base string, n int) string {
	if n == 0 {
		return base
	}
	suffix := strconv.Itoa(n)
	if len(base)+len(suffix) > maxUsernameLength {
		base = strings.TrimSpace(base[:maxUsernameLength-len(suffix)])
	}
	return base + suffix
}
