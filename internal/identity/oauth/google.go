// Package oauth verifies third-party identity assertions. Only Google ID
// tokens are supported.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/pkg/jwtx"
)

const (
	GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	// DefaultKeyMaxAge is how long fetched keys are trusted before refetching.
	DefaultKeyMaxAge = time.Hour

	// DefaultFetchTimeout bounds a single JWKS request.
	DefaultFetchTimeout = 5 * time.Second

	// minRefetchInterval stops a stream of tokens with bogus kids from
	// hammering the JWKS endpoint.
	minRefetchInterval = time.Minute
)

// GoogleIssuers are the iss values Google puts in ID tokens.
var GoogleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

var (
	ErrInvalidAssertion = errors.New("oauth: invalid assertion")
	ErrNotConfigured    = errors.New("oauth: google client id not configured")
	ErrKeysUnavailable  = errors.New("oauth: signing keys unavailable")
)

// Verifier turns a raw ID token into a verified Assertion.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (domain.Assertion, error)
}

type GoogleConfig struct {
	ClientID     string
	JWKSURL      string        // defaults to GoogleJWKSURL
	KeyMaxAge    time.Duration // defaults to DefaultKeyMaxAge
	FetchTimeout time.Duration // defaults to DefaultFetchTimeout
	HTTPClient   *http.Client
	Issuers      []string // defaults to GoogleIssuers
}

// GoogleVerifier checks Google ID tokens against Google's published keys.
type GoogleVerifier struct {
	cfg      GoogleConfig
	keys     *jwtx.KeySet
	verifier *jwtx.RS256Verifier

	// refreshMu serialises JWKS fetches.
	refreshMu   sync.Mutex
	lastAttempt time.Time
}

var _ Verifier = (*GoogleVerifier)(nil)

func NewGoogleVerifier(cfg GoogleConfig) *GoogleVerifier {
	if cfg.JWKSURL == "" {
		cfg.JWKSURL = GoogleJWKSURL
	}
	if cfg.KeyMaxAge <= 0 {
		cfg.KeyMaxAge = DefaultKeyMaxAge
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.FetchTimeout}
	}
	if len(cfg.Issuers) == 0 {
		cfg.Issuers = GoogleIssuers
	}

	keys := jwtx.NewKeySet()
	return &GoogleVerifier{
		cfg:      cfg,
		keys:     keys,
		verifier: jwtx.NewVerifierRS256(keys, cfg.Issuers, []string{cfg.ClientID}, 30*time.Second),
	}
}

// Verify validates signature, issuer, audience and expiry. Keys are fetched
// lazily, refreshed when older than KeyMaxAge, and refetched once when a
// token names a kid we have not seen (Google rotates keys).
func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (domain.Assertion, error) {
	if strings.TrimSpace(g.cfg.ClientID) == "" {
		return domain.Assertion{}, ErrNotConfigured
	}
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return domain.Assertion{}, ErrInvalidAssertion
	}

	if g.keys.Stale(g.cfg.KeyMaxAge) {
		if err := g.refresh(ctx, false); err != nil && !g.keys.IsReady() {
			return domain.Assertion{}, err
		}
	}

	claims, err := g.verifier.Verify(idToken)
	if errors.Is(err, jwtx.ErrUnknownKID) {
		if rerr := g.refresh(ctx, true); rerr != nil {
			return domain.Assertion{}, rerr
		}
		claims, err = g.verifier.Verify(idToken)
	}
	if err != nil {
		return domain.Assertion{}, fmt.Errorf("%w: %w", ErrInvalidAssertion, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return domain.Assertion{}, fmt.Errorf("%w: missing sub or email", ErrInvalidAssertion)
	}

	return domain.Assertion{
		SubjectID:     claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// refresh fetches the JWKS. When onDemand is set (unknown kid) fetches are
// throttled to one per minRefetchInterval.
func (g *GoogleVerifier) refresh(ctx context.Context, onDemand bool) error {
	g.refreshMu.Lock()
	defer g.refreshMu.Unlock()

	if onDemand && time.Since(g.lastAttempt) < minRefetchInterval {
		return nil
	}
	// Another caller may have refreshed while we waited for the lock.
	if !onDemand && !g.keys.Stale(g.cfg.KeyMaxAge) {
		return nil
	}
	g.lastAttempt = time.Now()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.JWKSURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: jwks status %d", ErrKeysUnavailable, resp.StatusCode)
	}

	var jwks jwtx.JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("%w: decode jwks: %w", ErrKeysUnavailable, err)
	}
	if err := g.keys.ResetFromJWKS(jwks); err != nil {
		return fmt.Errorf("%w: %w", ErrKeysUnavailable, err)
	}
	return nil
}

// Ready reports whether keys have been loaded at least once.
func (g *GoogleVerifier) Ready() bool { return g.keys.IsReady() }
