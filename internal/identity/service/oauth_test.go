package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleLogin_CreatesOnceThenReuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.google.assertion = domain.Assertion{
		SubjectID: "google-123", Email: "Grace@Example.com", EmailVerified: true, Name: "Grace Hopper", Picture: "https://example.com/g.png",
	}

	first, err := env.auth.GoogleLogin(ctx, "id-token", "")
	require.NoError(t, err)
	assert.True(t, first.IsNewUser)
	assert.Equal(t, "Grace Hopper", first.Account.Username)
	assert.Equal(t, "grace@example.com", first.Account.Email)
	assert.Equal(t, domain.ProviderGoogle, first.Account.AuthProvider)
	assert.Equal(t, domain.RoleRider, first.Account.Role)
	assert.True(t, first.Account.EmailVerified)
	assert.False(t, first.Account.HasPassword())

	second, err := env.auth.GoogleLogin(ctx, "id-token", "")
	require.NoError(t, err)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.Account.ID, second.Account.ID)

	all, err := env.accounts.FindAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGoogleLogin_LinksExistingLocalAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")
	env.google.assertion = domain.Assertion{SubjectID: "google-ada", Email: "ada@example.com", EmailVerified: true, Name: "Ada"}

	got, err := env.auth.GoogleLogin(ctx, "id-token", "")
	require.NoError(t, err)
	assert.False(t, got.IsNewUser)
	assert.Equal(t, s.Account.ID, got.Account.ID)
	assert.Equal(t, "google-ada", got.Account.GoogleID)

	// A different subject with the same email does not relink.
	env.google.assertion.SubjectID = "google-other"
	got, err = env.auth.GoogleLogin(ctx, "id-token", "")
	require.NoError(t, err)
	assert.Equal(t, "google-ada", got.Account.GoogleID)
}

func TestGoogleLogin_UnverifiedEmailIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "victim", "victim@example.com")

	env.google.assertion = domain.Assertion{SubjectID: "other-sub", Email: "victim@example.com", EmailVerified: false, Name: "Victim"}
	_, err := env.auth.GoogleLogin(ctx, "id-token", "")
	require.ErrorIs(t, err, ErrInvalidGoogleToken)

	a, err := env.accounts.FindByID(ctx, s.Account.ID)
	require.NoError(t, err)
	assert.Empty(t, a.GoogleID)

	env.google.assertion = domain.Assertion{SubjectID: "new-sub", Email: "newcomer@example.com", EmailVerified: false, Name: "Newcomer"}
	_, err = env.auth.GoogleLogin(ctx, "id-token", "")
	require.ErrorIs(t, err, ErrInvalidGoogleToken)

	all, err := env.accounts.FindAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGoogleLogin_UsernameCollisionGetsSuffix(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "Grace Hopper", "grace@example.com")
	env.register(t, "Grace Hopper1", "grace1@example.com")

	env.google.assertion = domain.Assertion{SubjectID: "g-2", Email: "gh@example.com", EmailVerified: true, Name: "Grace Hopper"}
	got, err := env.auth.GoogleLogin(ctx, "id-token", "")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper2", got.Account.Username)
}

func TestGoogleLogin_RespectsTwoFactor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.google.assertion = domain.Assertion{SubjectID: "g-1", Email: "g@example.com", EmailVerified: true, Name: "Gee"}

	first, err := env.auth.GoogleLogin(ctx, "id-token", "")
	require.NoError(t, err)
	secret, _ := env.enable2FA(t, first.Account.ID)

	_, err = env.auth.GoogleLogin(ctx, "id-token", "")
	require.ErrorIs(t, err, ErrTwoFactorRequired)
	_, err = env.auth.GoogleLogin(ctx, "id-token", env.totp(t, secret))
	require.NoError(t, err)
}

func TestGoogleLogin_VerifierFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.google.err = oauth.ErrInvalidAssertion
	_, err := env.auth.GoogleLogin(ctx, "bad", "")
	require.ErrorIs(t, err, ErrInvalidGoogleToken)

	env.google.err = errors.Join(oauth.ErrKeysUnavailable, errors.New("dial tcp: timeout"))
	_, err = env.auth.GoogleLogin(ctx, "bad", "")
	require.ErrorIs(t, err, apperror.ErrUnavailable)
}

func TestGoogleLogin_DomainPolicy(t *testing.T) {
	env := newTestEnv(t, "ridesafe.io")
	env.google.assertion = domain.Assertion{SubjectID: "g-1", Email: "someone@gmail.com", EmailVerified: true, Name: "Someone"}

	_, err := env.auth.GoogleLogin(context.Background(), "id-token", "")
	require.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSynthesiseUsername(t *testing.T) {
	tests := []struct {
		name, display, email, want string
	}{
		{"display name", "Grace Hopper", "g@x.com", "Grace Hopper"},
		{"strips symbols", "  Zoë  O'Brien!! ", "z@x.com", "Zo OBrien"},
		{"falls back to email", "李", "rider.one@x.com", "riderone"},
		{"falls back to rider", "", "a@x.com", "rider"},
		{"truncates", strings.Repeat("a", 40), "a@x.com", strings.Repeat("a", 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SynthesiseUsername(tt.display, tt.email))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "rider", withSuffix("rider", 0))
	assert.Equal(t, "rider12", withSuffix("rider", 12))
	assert.Equal(t, strings.Repeat("a", 29)+"7", withSuffix(strings.Repeat("a", 30), 7))
}
