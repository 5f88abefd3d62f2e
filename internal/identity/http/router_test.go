package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/pkg/identitysdk"
	"github.com/stretchr/testify/require"
)

func TestRegisterVerifyAndProfile(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	s, resp, err := ts.client.Register(ctx, identitysdk.RegisterRequest{
		Username:        "Ada Lovelace",
		Email:           "Ada@Example.com",
		ContactNumber:   "+61400000000",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.True(t, resp.IsNewUser)
	require.Equal(t, "ada@example.com", resp.Account.Email)
	require.Equal(t, "rider", resp.Account.Role)

	me, err := s.Verify(ctx)
	require.NoError(t, err)
	require.Equal(t, resp.Account.ID, me.ID)

	pic := "https://cdn.example.com/ada.png"
	updated, err := s.UpdateProfile(ctx, identitysdk.UpdateProfileRequest{Picture: &pic})
	require.NoError(t, err)
	require.Equal(t, pic, updated.Picture)

	require.NoError(t, s.DeleteAccount(ctx))
	_, err = s.Verify(ctx)
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestRegister_ReportsViolations(t *testing.T) {
	ts := newTestServer(t)

	_, _, err := ts.client.Register(context.Background(), identitysdk.RegisterRequest{
		Username: "x",
		Email:    "not-an-email",
		Password: "short",
	})
	var apiErr *identitysdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "validation_error", apiErr.Type)

	fields := map[string]bool{}
	for _, fe := range apiErr.Errors {
		fields[fe.Field] = true
	}
	require.True(t, fields["username"])
	require.True(t, fields["email"])
	require.True(t, fields["password"])
}

func TestLogin_FailuresShareOneBody(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Ada Lovelace", "ada@example.com")

	post := func(body string) string {
		resp, err := http.Post(ts.srv.URL+"/login", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(raw)
	}

	wrongPassword := post(`{"identifier":"ada@example.com","password":"Wr0ng!pass"}`)
	unknownUser := post(`{"identifier":"nobody@example.com","password":"Wr0ng!pass"}`)
	require.Equal(t, wrongPassword, unknownUser)
	require.Contains(t, wrongPassword, "Invalid credentials")
}

func TestAccountJSONNeverCarriesSecrets(t *testing.T) {
	ts := newTestServer(t)
	s := ts.register(t, "Ada Lovelace", "ada@example.com")
	_, err := s.GenerateTwoFactor(context.Background())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/verify", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.Token())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := string(raw)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	require.NotContains(t, body, "$2a$")
	require.NotContains(t, body, "password")
	require.NotContains(t, body, "secret")
	require.NotContains(t, body, "resetToken")
}

func TestBadJSONIsValidationError(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.srv.URL+"/register", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoleGates(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	rider := ts.register(t, "Ada Lovelace", "ada@example.com")
	admin := ts.admin(t)

	_, err := ts.client.SessionFromToken("").ListUsers(ctx, false)
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = ts.client.SessionFromToken("not-a-token").ListUsers(ctx, false)
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = rider.ListUsers(ctx, false)
	requireStatus(t, err, http.StatusForbidden)

	users, err := admin.ListUsers(ctx, false)
	require.NoError(t, err)
	require.Len(t, users, 1)

	users, err = admin.ListUsers(ctx, true)
	require.NoError(t, err)
	require.Len(t, users, 2)

	// Contacts belong to riders.
	_, err = admin.ListContacts(ctx)
	requireStatus(t, err, http.StatusForbidden)

	// Riders cannot sign in through /admin/login.
	_, _, err = ts.client.AdminLogin(ctx, identitysdk.LoginRequest{Identifier: "ada@example.com", Password: testPassword})
	requireStatus(t, err, http.StatusUnauthorized)
}

func TestAdminUserManagement(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	rider := ts.register(t, "Ada Lovelace", "ada@example.com")
	admin := ts.admin(t)

	me, err := rider.Verify(ctx)
	require.NoError(t, err)

	got, err := admin.GetUser(ctx, me.ID)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", got.Username)

	verified := true
	updated, err := admin.UpdateUser(ctx, me.ID, identitysdk.UpdateUserRequest{EmailVerified: &verified})
	require.NoError(t, err)
	require.True(t, updated.EmailVerified)

	promoted, err := admin.SetRole(ctx, me.ID, "ADMIN")
	require.NoError(t, err)
	require.Equal(t, "admin", promoted.Role)

	// The role change ended the rider's session.
	_, err = rider.Verify(ctx)
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = admin.SetRole(ctx, me.ID, "superuser")
	requireStatus(t, err, http.StatusBadRequest)

	adminMe, err := admin.Verify(ctx)
	require.NoError(t, err)
	_, err = admin.SetRole(ctx, adminMe.ID, "rider")
	requireStatus(t, err, http.StatusForbidden)

	require.NoError(t, admin.DeleteUser(ctx, me.ID))
	_, err = admin.GetUser(ctx, me.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestChangePassword_EndsOtherSessions(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	s := ts.register(t, "Ada Lovelace", "ada@example.com")
	other := ts.client.SessionFromToken(s.Token())

	const next = "N3w!secret"
	err := s.ChangePassword(ctx, identitysdk.ChangePasswordRequest{CurrentPassword: "Wr0ng!pass", Password: next, ConfirmPassword: next})
	requireStatus(t, err, http.StatusBadRequest)

	require.NoError(t, s.ChangePassword(ctx, identitysdk.ChangePasswordRequest{
		CurrentPassword: testPassword, Password: next, ConfirmPassword: next,
	}))

	_, err = s.Verify(ctx)
	require.NoError(t, err)
	_, err = other.Verify(ctx)
	requireStatus(t, err, http.StatusUnauthorized)

	_, _, err = ts.client.Login(ctx, identitysdk.LoginRequest{Identifier: "ada@example.com", Password: next})
	require.NoError(t, err)
}

func TestProfileRefusesPasswordField(t *testing.T) {
	ts := newTestServer(t)
	s := ts.register(t, "Ada Lovelace", "ada@example.com")

	req, err := http.NewRequest(http.MethodPut, ts.srv.URL+"/profile", strings.NewReader(`{"password":"N3w!secret"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.Token())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForgotAndResetPassword(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	ts.register(t, "Ada Lovelace", "ada@example.com")

	known, err := ts.client.ForgotPassword(ctx, "ada@example.com")
	require.NoError(t, err)
	unknown, err := ts.client.ForgotPassword(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Equal(t, known, unknown)

	ts.auth.WaitMail()
	token := ts.mail.token("ada@example.com")
	require.NotEmpty(t, token)

	const next = "N3w!secret"
	_, err = ts.client.ResetPassword(ctx, identitysdk.ResetPasswordRequest{Token: token, Password: next, ConfirmPassword: next})
	require.NoError(t, err)

	_, err = ts.client.ResetPassword(ctx, identitysdk.ResetPasswordRequest{Token: token, Password: next, ConfirmPassword: next})
	requireStatus(t, err, http.StatusBadRequest)

	_, _, err = ts.client.Login(ctx, identitysdk.LoginRequest{Identifier: "Ada Lovelace", Password: next})
	require.NoError(t, err)
}

func TestContacts(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	s := ts.register(t, "Ada Lovelace", "ada@example.com")

	var first *identitysdk.Contact
	for i := range domain.MaxContacts {
		c, err := s.AddContact(ctx, identitysdk.ContactRequest{
			Name:          "Contact",
			Relation:      "friend",
			ContactNumber: "+6140000000" + string(rune('1'+i)),
		})
		require.NoError(t, err)
		if first == nil {
			first = c
		}
	}

	_, err := s.AddContact(ctx, identitysdk.ContactRequest{Name: "Sixth", Relation: "friend", ContactNumber: "+61400000099"})
	requireStatus(t, err, http.StatusBadRequest)

	list, err := s.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, domain.MaxContacts)

	renamed, err := s.UpdateContact(ctx, first.ID, identitysdk.ContactRequest{Name: "Mum", Relation: "parent", ContactNumber: "+61400000001"})
	require.NoError(t, err)
	require.Equal(t, "Mum", renamed.Name)

	require.NoError(t, s.DeleteContact(ctx, first.ID))
	err = s.DeleteContact(ctx, first.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestTwoFactorFlow(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	s := ts.register(t, "Ada Lovelace", "ada@example.com")

	setup, err := s.GenerateTwoFactor(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, setup.Secret)
	require.True(t, strings.HasPrefix(setup.URL, "otpauth://totp/"))
	require.True(t, strings.HasPrefix(setup.QRCode, "data:image/png;base64,"))

	codes, err := s.VerifyTwoFactor(ctx, totpNow(t, setup.Secret))
	require.NoError(t, err)
	require.NotEmpty(t, codes)

	status, err := s.TwoFactorStatus(ctx)
	require.NoError(t, err)
	require.True(t, status.Enabled)
	require.Equal(t, len(codes), status.BackupCodesRemaining)

	_, _, err = ts.client.Login(ctx, identitysdk.LoginRequest{Identifier: "ada@example.com", Password: testPassword})
	require.True(t, identitysdk.IsTwoFactorRequired(err))

	_, _, err = ts.client.Login(ctx, identitysdk.LoginRequest{Identifier: "ada@example.com", Password: testPassword, Code: codes[0]})
	require.NoError(t, err)

	require.NoError(t, s.DisableTwoFactor(ctx, identitysdk.DisableTwoFactorRequest{Password: testPassword}))
	status, err = s.TwoFactorStatus(ctx)
	require.NoError(t, err)
	require.False(t, status.Enabled)
}

func TestGoogleLogin(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	ts.google.assertion = domain.Assertion{
		SubjectID:     "google-sub-1",
		Email:         "grace@example.com",
		EmailVerified: true,
		Name:          "Grace Hopper",
	}

	_, resp, err := ts.client.GoogleLogin(ctx, identitysdk.GoogleLoginRequest{IDToken: "good-google-token"})
	require.NoError(t, err)
	require.True(t, resp.IsNewUser)
	require.True(t, resp.Account.GoogleLinked)
	require.Equal(t, "google", resp.Account.AuthProvider)

	_, resp, err = ts.client.GoogleLogin(ctx, identitysdk.GoogleLoginRequest{IDToken: "good-google-token"})
	require.NoError(t, err)
	require.False(t, resp.IsNewUser)

	_, _, err = ts.client.GoogleLogin(ctx, identitysdk.GoogleLoginRequest{IDToken: "forged"})
	requireStatus(t, err, http.StatusUnauthorized)

	_, _, err = ts.client.GoogleLogin(ctx, identitysdk.GoogleLoginRequest{})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	live, err := ts.client.Liveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := ts.client.Readiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Google)
}

func TestReadyz_DegradedWhenCacheDown(t *testing.T) {
	h := ReadyzHandler(time.Now(), "test", okPinger{}, failingPinger{}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), `"degraded"`)
	require.Contains(t, rec.Body.String(), `"disabled"`)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }
