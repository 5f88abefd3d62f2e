package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/ridesafe/identity/internal/identity/cache"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/service"
	"github.com/ridesafe/identity/internal/identity/store/drivers/sqlite"
	"github.com/ridesafe/identity/pkg/cryptox"
	"github.com/ridesafe/identity/pkg/identitysdk"
	"github.com/ridesafe/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Secr3t!pass"

type capturedMail struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *capturedMail) SendPasswordReset(_ context.Context, to, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[to] = token
	return nil
}

func (m *capturedMail) token(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[to]
}

type stubVerifier struct {
	assertion domain.Assertion
}

func (s *stubVerifier) Verify(_ context.Context, idToken string) (domain.Assertion, error) {
	if idToken != "good-google-token" {
		return domain.Assertion{}, errors.New("bad token")
	}
	return s.assertion, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

type readyKeys bool

func (k readyKeys) Ready() bool { return bool(k) }

type testServer struct {
	srv      *httptest.Server
	client   *identitysdk.Client
	router   *Router
	accounts *service.AccountService
	auth     *service.AuthService
	mail     *capturedMail
	google   *stubVerifier
}

// newTestServer serves the full router over a throwaway sqlite file.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "identity.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "ridesafe-test")
	require.NoError(t, err)

	pending := cache.NewMemoryPending()
	hasher := &cryptox.Hasher{Cost: bcrypt.MinCost, Pepper: "test-pepper"}
	mail := &capturedMail{tokens: map[string]string{}}
	google := &stubVerifier{}

	accounts := &service.AccountService{Store: st, Hasher: hasher, Validator: service.NewValidator(nil)}
	tokens := &service.TokenService{Signer: signer, Store: st, Issuer: "ridesafe-test", SessionTTL: time.Hour}
	mfa := &service.MFAService{Accounts: accounts, Store: st, Pending: pending, Hasher: hasher, Issuer: "RideSafe"}
	oauthSvc := &service.OAuthService{Verifier: google, Accounts: accounts, Validator: accounts.Validator}
	auth := &service.AuthService{Accounts: accounts, Tokens: tokens, MFA: mfa, OAuth: oauthSvc, Mailer: mail}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter("test", st, pending, readyKeys(true), logger)
	r.AuthService = auth
	r.AccountService = accounts
	r.SessionResolver = &service.SessionResolver{Tokens: tokens, Accounts: accounts}
	r.ProfileService = &service.ProfileService{Accounts: accounts}
	r.AdminService = &service.AdminService{Accounts: accounts}
	r.ContactService = &service.ContactService{Accounts: accounts}
	r.MFAService = mfa
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		srv:      srv,
		client:   identitysdk.NewClient(srv.URL),
		router:   r,
		accounts: accounts,
		auth:     auth,
		mail:     mail,
		google:   google,
	}
}

func (ts *testServer) register(t *testing.T, username, email string) *identitysdk.Session {
	t.Helper()
	s, _, err := ts.client.Register(context.Background(), identitysdk.RegisterRequest{
		Username:        username,
		Email:           email,
		ContactNumber:   "+61400000000",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return s
}

func (ts *testServer) admin(t *testing.T) *identitysdk.Session {
	t.Helper()
	ctx := context.Background()
	_, err := ts.accounts.Create(ctx, service.NewAccount{
		Username:        "Ops Admin",
		Email:           "ops@ridesafe.test",
		ContactNumber:   "+61400000009",
		Password:        testPassword,
		ConfirmPassword: testPassword,
		Role:            domain.RoleAdmin,
	})
	require.NoError(t, err)

	s, _, err := ts.client.AdminLogin(ctx, identitysdk.LoginRequest{Identifier: "ops@ridesafe.test", Password: testPassword})
	require.NoError(t, err)
	return s
}

func totpNow(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, identitysdk.StatusCode(err), err.Error())
}
