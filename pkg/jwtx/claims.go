package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of a session token when none is
// configured. Sessions are long lived; revocation is handled by bumping the
// account's token version.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims are the session-token claims issued by the identity service.
type Claims struct {
	jwt.RegisteredClaims

	// Role of the account at issue time ("rider", "admin").
	Role string `json:"role"`

	// TokenVersion must match the account's current token version for the
	// token to be accepted. Password changes and resets bump it.
	TokenVersion int `json:"tv"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(
	subject, role string,
	tokenVersion int,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:         role,
		TokenVersion: tokenVersion,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	return validateIssuer(&c.RegisteredClaims, expected)
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	return validateAudience(&c.RegisteredClaims, expected)
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return validateTimes(&c.RegisteredClaims, 0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	return validateTimes(&c.RegisteredClaims, leeway)
}

func validateIssuer(rc *jwt.RegisteredClaims, accepted ...string) error {
	if len(accepted) == 0 {
		return nil
	}
	if slices.Contains(accepted, rc.Issuer) {
		return nil
	}
	return ErrIssuer
}

func validateAudience(rc *jwt.RegisteredClaims, expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(rc.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

func validateTimes(rc *jwt.RegisteredClaims, leeway time.Duration) error {
	now := time.Now().UTC()

	if rc.ExpiresAt != nil && now.After(rc.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if rc.NotBefore != nil && now.Before(rc.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
