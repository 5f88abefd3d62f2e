package identitysdk

import (
	"context"
	"net/http"
	"net/url"
	"sync"
)

// Session performs authenticated calls with a bearer token. It is safe for
// concurrent use.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	return s.client.do(ctx, method, path, s.Token(), body, out)
}

// Verify resolves the token to the current account.
func (s *Session) Verify(ctx context.Context) (*Account, error) {
	var resp AccountResponse
	if err := s.do(ctx, http.MethodGet, "/verify", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Account, error) {
	var resp AccountResponse
	if err := s.do(ctx, http.MethodPut, "/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

// ChangePassword switches the session to the token the service returns.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	var resp PasswordChangedResponse
	if err := s.do(ctx, http.MethodPut, "/profile/password", req, &resp); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = resp.Token
	s.mu.Unlock()
	return nil
}

func (s *Session) DeleteAccount(ctx context.Context) error {
	return s.do(ctx, http.MethodDelete, "/profile", nil, nil)
}

// Contacts

func (s *Session) ListContacts(ctx context.Context) ([]Contact, error) {
	var resp ContactsResponse
	if err := s.do(ctx, http.MethodGet, "/contacts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

func (s *Session) AddContact(ctx context.Context, req ContactRequest) (*Contact, error) {
	var resp ContactResponse
	if err := s.do(ctx, http.MethodPost, "/contacts", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Contact, nil
}

func (s *Session) UpdateContact(ctx context.Context, id string, req ContactRequest) (*Contact, error) {
	var resp ContactResponse
	if err := s.do(ctx, http.MethodPut, "/contacts/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Contact, nil
}

func (s *Session) DeleteContact(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil)
}

// Two-factor

func (s *Session) GenerateTwoFactor(ctx context.Context) (*TwoFactorSetupResponse, error) {
	var resp TwoFactorSetupResponse
	if err := s.do(ctx, http.MethodPost, "/2fa/generate", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyTwoFactor confirms enrollment and returns the backup codes.
func (s *Session) VerifyTwoFactor(ctx context.Context, code string) ([]string, error) {
	var resp BackupCodesResponse
	if err := s.do(ctx, http.MethodPost, "/2fa/verify", CodeRequest{Code: code}, &resp); err != nil {
		return nil, err
	}
	return resp.BackupCodes, nil
}

func (s *Session) DisableTwoFactor(ctx context.Context, req DisableTwoFactorRequest) error {
	return s.do(ctx, http.MethodPost, "/2fa/disable", req, nil)
}

func (s *Session) RegenerateBackupCodes(ctx context.Context, code string) ([]string, error) {
	var resp BackupCodesResponse
	if err := s.do(ctx, http.MethodPost, "/2fa/backup-codes", CodeRequest{Code: code}, &resp); err != nil {
		return nil, err
	}
	return resp.BackupCodes, nil
}

func (s *Session) TwoFactorStatus(ctx context.Context) (*TwoFactorStatusResponse, error) {
	var resp TwoFactorStatusResponse
	if err := s.do(ctx, http.MethodGet, "/2fa/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Administration. These need an admin session.

func (s *Session) ListUsers(ctx context.Context, includeAdmins bool) ([]Account, error) {
	path := "/users"
	if includeAdmins {
		path += "?includeAdmins=true"
	}
	var resp AccountsResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

func (s *Session) GetUser(ctx context.Context, id string) (*Account, error) {
	var resp AccountResponse
	if err := s.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

func (s *Session) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*Account, error) {
	var resp AccountResponse
	if err := s.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

func (s *Session) SetRole(ctx context.Context, id, role string) (*Account, error) {
	var resp AccountResponse
	if err := s.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/role", SetRoleRequest{Role: role}, &resp); err != nil {
		return nil, err
	}
	return &resp.Account, nil
}

func (s *Session) DeleteUser(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}
