package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/ridesafe/identity/internal/identity/cache"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/oauth"
	"github.com/ridesafe/identity/internal/identity/store/drivers/sqlite"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/ridesafe/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Secr3t!pass"

type sentMail struct {
	To, Username, Token string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, to, username, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Username: username, Token: token})
	return nil
}

func (m *recordingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeVerifier struct {
	assertion domain.Assertion
	err       error
}

func (f *fakeVerifier) Verify(context.Context, string) (domain.Assertion, error) {
	return f.assertion, f.err
}

// testEnv wires every service over a throwaway sqlite file. clock drives
// every service's Now; it starts at the real time because session tokens
// are checked against the wall clock.
type testEnv struct {
	store    *sqlite.Store
	pending  *cache.MemoryPending
	accounts *AccountService
	tokens   *TokenService
	mfa      *MFAService
	oauth    *OAuthService
	auth     *AuthService
	contacts *ContactService
	admin    *AdminService
	profile  *ProfileService
	resolver *SessionResolver
	mail     *recordingMailer
	google   *fakeVerifier

	clock time.Time
}

func newTestEnv(t *testing.T, allowedDomains ...string) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "identity.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "ridesafe-test")
	require.NoError(t, err)

	env := &testEnv{
		store:   st,
		pending: cache.NewMemoryPending(),
		mail:    &recordingMailer{},
		google:  &fakeVerifier{},
		clock:   time.Now().UTC(),
	}
	now := func() time.Time { return env.clock }

	hasher := &cryptox.Hasher{Cost: bcrypt.MinCost, Pepper: "test-pepper"}
	env.accounts = &AccountService{Store: st, Hasher: hasher, Validator: NewValidator(allowedDomains), Now: now}
	env.tokens = &TokenService{Signer: signer, Store: st, Issuer: "ridesafe-test", SessionTTL: time.Hour, Now: now}
	env.mfa = &MFAService{Accounts: env.accounts, Store: st, Pending: env.pending, Hasher: hasher, Issuer: "RideSafe", Now: now}
	env.oauth = &OAuthService{Verifier: env.google, Accounts: env.accounts, Validator: env.accounts.Validator}
	env.auth = &AuthService{Accounts: env.accounts, Tokens: env.tokens, MFA: env.mfa, OAuth: env.oauth, Mailer: env.mail}
	env.contacts = &ContactService{Accounts: env.accounts}
	env.admin = &AdminService{Accounts: env.accounts}
	env.profile = &ProfileService{Accounts: env.accounts}
	env.resolver = &SessionResolver{Tokens: env.tokens, Accounts: env.accounts}
	return env
}

func registration(username, email string) domain.Registration {
	return domain.Registration{
		Username:        username,
		Email:           email,
		ContactNumber:   "+61400000000",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	}
}

func (e *testEnv) register(t *testing.T, username, email string) domain.Session {
	t.Helper()
	s, err := e.auth.Register(context.Background(), registration(username, email))
	require.NoError(t, err)
	return s
}

func (e *testEnv) createAdmin(t *testing.T, username, email string) domain.Account {
	t.Helper()
	a, err := e.accounts.Create(context.Background(), NewAccount{
		Username:        username,
		Email:           email,
		ContactNumber:   "+61400000009",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Role:            domain.RoleAdmin,
	})
	require.NoError(t, err)
	return a
}

// enable2FA runs the whole enrollment and returns the secret and the
// backup codes.
func (e *testEnv) enable2FA(t *testing.T, accountID string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	a, err := e.accounts.FindByID(ctx, accountID)
	require.NoError(t, err)
	enrollment, err := e.mfa.BeginEnrollment(ctx, a)
	require.NoError(t, err)

	codes, err := e.mfa.ConfirmEnrollment(ctx, a, e.totp(t, enrollment.Secret))
	require.NoError(t, err)
	return enrollment.Secret, codes
}

func (e *testEnv) totp(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, e.clock)
	require.NoError(t, err)
	return code
}

var _ oauth.Verifier = (*fakeVerifier)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type brokenPending struct{}

func (brokenPending) Put(context.Context, string, string, time.Duration) error { return cache.ErrUnavailable }
func (brokenPending) Get(context.Context, string) (string, error) { return "", cache.ErrUnavailable }
func (brokenPending) Delete(context.Context, string) error { return cache.ErrUnavailable }
func (brokenPending) Ping(context.Context) error { return cache.ErrUnavailable }
