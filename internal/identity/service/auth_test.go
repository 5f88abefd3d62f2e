package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ridesafe/identity/internal/identity/apperror"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s := env.register(t, "ada rider", "Ada@Example.com")
	require.NotEmpty(t, s.Token)
	assert.True(t, s.IsNewUser)
	assert.Equal(t, "ada@example.com", s.Account.Email)
	assert.Equal(t, domain.RoleRider, s.Account.Role)

	// The account is never serialised with its hash.
	raw, err := json.Marshal(s.Account)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "PasswordHash")
	assert.NotContains(t, string(raw), "$2a$")

	for _, identifier := range []string{"ada@example.com", "ADA@example.com", "ada rider"} {
		got, err := env.auth.Login(ctx, identifier, testPassword, "")
		require.NoError(t, err, identifier)
		assert.Equal(t, s.Account.ID, got.Account.ID)
		assert.False(t, got.IsNewUser)
	}

	p, err := env.resolver.Resolve(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Account.ID, p.ID)
}

func TestRegister_ReportsEveryViolation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), domain.Registration{
		Username:        "x!",
		Email:           "not-an-email",
		ContactNumber:   "12",
		Password:        "short",
		ConfirmPassword: "different",
	})
	require.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	fields := map[string]int{}
	for _, v := range appErr.Violations {
		fields[v.Field]++
	}
	for _, f := range []string{"username", "email", "contactNumber", "password", "confirmPassword"} {
		assert.Positive(t, fields[f], "missing violation for %s", f)
	}
	assert.Equal(t, 2, fields["username"], "length and charset are both reported")
}

func TestRegister_DuplicatesConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "ada rider", "ada@example.com")

	_, err := env.auth.Register(ctx, registration("someone else", "ADA@example.com"))
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = env.auth.Register(ctx, registration("ada rider", "other@example.com"))
	require.ErrorIs(t, err, ErrUsernameTaken)

	all, err := env.accounts.FindAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRegister_EmailDomainPolicy(t *testing.T) {
	env := newTestEnv(t, "ridesafe.io")

	_, err := env.auth.Register(context.Background(), registration("ada rider", "ada@gmail.com"))
	require.ErrorIs(t, err, apperror.ErrValidation)

	env.register(t, "ada rider", "ada@ridesafe.io")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "attacker", "attacker@x.com")

	_, wrongPassword := env.auth.Login(ctx, "Attacker@x.com", "wrong", "")
	_, unknown := env.auth.Login(ctx, "nonexistent@x.com", "anything", "")
	require.Error(t, wrongPassword)
	require.Error(t, unknown)

	a, err := json.Marshal(apperror.From(wrongPassword))
	require.NoError(t, err)
	b, err := json.Marshal(apperror.From(unknown))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, apperror.SafeCode(wrongPassword), apperror.SafeCode(unknown))
}

func TestLogin_GoogleOnlyAccountHasNoPassword(t *testing.T) {
	env := newTestEnv(t)
	env.google.assertion = domain.Assertion{SubjectID: "g-1", Email: "g@example.com", EmailVerified: true, Name: "Gee Rider"}

	_, err := env.auth.GoogleLogin(context.Background(), "id-token", "")
	require.NoError(t, err)

	_, err = env.auth.Login(context.Background(), "g@example.com", "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "rider one", "rider@example.com")
	admin := env.createAdmin(t, "boss", "boss@example.com")

	_, err := env.auth.AdminLogin(ctx, "rider@example.com", testPassword, "")
	require.ErrorIs(t, err, ErrInvalidAdminCredentials)

	_, err = env.auth.AdminLogin(ctx, "boss@example.com", "wrong", "")
	require.ErrorIs(t, err, ErrInvalidAdminCredentials)

	s, err := env.auth.AdminLogin(ctx, "boss", testPassword, "")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, s.Account.ID)
}

func TestForgotPassword_UniformAndMailed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "ada rider", "ada@example.com")

	env.auth.ForgotPassword(ctx, "nobody@example.com")
	env.auth.ForgotPassword(ctx, "ADA@example.com")
	env.auth.WaitMail()

	sent := env.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Equal(t, "ada rider", sent[0].Username)
	assert.NotEmpty(t, sent[0].Token)

	a, err := env.accounts.FindByID(ctx, env.mustID(t, "ada@example.com"))
	require.NoError(t, err)
	assert.Equal(t, cryptox.FingerprintToken(sent[0].Token), a.ResetTokenHash)
}

func TestForgotPassword_MailFailureIsSilent(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ada rider", "ada@example.com")
	env.mail.err = errors.New("smtp down")

	env.auth.ForgotPassword(context.Background(), "ada@example.com")
	env.auth.WaitMail()
	assert.Empty(t, env.mail.Sent())
}

func TestResetPassword_TokenWorksOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	token, err := env.tokens.IssueResetToken(ctx, s.Account.ID)
	require.NoError(t, err)

	const newPassword = "N3w!passw0rd"
	require.NoError(t, env.auth.ResetPassword(ctx, token, newPassword, newPassword))
	require.ErrorIs(t, env.auth.ResetPassword(ctx, token, newPassword, newPassword), ErrInvalidResetToken)

	_, err = env.auth.Login(ctx, "ada@example.com", testPassword, "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "ada@example.com", newPassword, "")
	require.NoError(t, err)

	// Sessions from before the reset are dead.
	_, err = env.resolver.Resolve(ctx, s.Token)
	require.ErrorIs(t, err, ErrInvalidSession)

	a, err := env.accounts.FindByID(ctx, s.Account.ID)
	require.NoError(t, err)
	assert.Empty(t, a.ResetTokenHash)
	assert.Nil(t, a.ResetTokenExpiresAt)
}

func TestResetPassword_ExpiredTokenIsRemoved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	realNow := env.clock
	env.clock = realNow.Add(-ResetTokenTTL - time.Minute)
	token, err := env.tokens.IssueResetToken(ctx, s.Account.ID)
	require.NoError(t, err)
	env.clock = realNow

	err = env.auth.ResetPassword(ctx, token, "N3w!passw0rd", "N3w!passw0rd")
	require.ErrorIs(t, err, ErrInvalidResetToken)

	a, err := env.accounts.FindByID(ctx, s.Account.ID)
	require.NoError(t, err)
	assert.Empty(t, a.ResetTokenHash)
}

func TestResetPassword_ValidatesNewPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	token, err := env.tokens.IssueResetToken(ctx, s.Account.ID)
	require.NoError(t, err)

	err = env.auth.ResetPassword(ctx, token, "weak", "weak")
	require.ErrorIs(t, err, apperror.ErrValidation)

	// The token survives a rejected password.
	require.NoError(t, env.auth.ResetPassword(ctx, token, "N3w!passw0rd", "N3w!passw0rd"))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	_, err := env.auth.ChangePassword(ctx, s.Account.ID, "wrong", "N3w!passw0rd", "N3w!passw0rd")
	require.ErrorIs(t, err, ErrIncorrectPassword)

	token, err := env.auth.ChangePassword(ctx, s.Account.ID, testPassword, "N3w!passw0rd", "N3w!passw0rd")
	require.NoError(t, err)

	_, err = env.resolver.Resolve(ctx, s.Token)
	require.ErrorIs(t, err, ErrInvalidSession)
	_, err = env.resolver.Resolve(ctx, token)
	require.NoError(t, err)
}

func TestResolve_RejectsGarbageAndDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.register(t, "ada rider", "ada@example.com")

	_, err := env.resolver.Resolve(ctx, "not.a.token")
	require.ErrorIs(t, err, ErrInvalidSession)

	require.NoError(t, env.profile.Delete(ctx, s.Account.ID))
	_, err = env.resolver.Resolve(ctx, s.Token)
	require.ErrorIs(t, err, ErrInvalidSession)
}

func (e *testEnv) mustID(t *testing.T, email string) string {
	t.Helper()
	a, err := e.accounts.FindByEmailOrUsername(context.Background(), email, "")
	require.NoError(t, err)
	return a.ID
}
