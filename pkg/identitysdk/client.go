package identitysdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client calls the public endpoints and opens Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SessionFromToken wraps a token obtained elsewhere.
func (c *Client) SessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Session, *SessionResponse, error) {
	return c.signIn(ctx, "/register", req)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, *SessionResponse, error) {
	return c.signIn(ctx, "/login", req)
}

func (c *Client) AdminLogin(ctx context.Context, req LoginRequest) (*Session, *SessionResponse, error) {
	return c.signIn(ctx, "/admin/login", req)
}

func (c *Client) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*Session, *SessionResponse, error) {
	return c.signIn(ctx, "/google", req)
}

func (c *Client) signIn(ctx context.Context, path string, req any) (*Session, *SessionResponse, error) {
	var resp SessionResponse
	if err := c.do(ctx, http.MethodPost, path, "", req, &resp); err != nil {
		return nil, nil, err
	}
	return c.SessionFromToken(resp.Token), &resp, nil
}

// ForgotPassword always succeeds for a well-formed request, whether or not
// the email is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/forgot-password", "", ForgotPasswordRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/reset-password", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Liveness(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Readiness(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
