package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IDClaims are the OpenID Connect ID-token claims we read from an external
// identity provider.
type IDClaims struct {
	jwt.RegisteredClaims

	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// RS256Verifier validates third-party ID tokens signed using RS256.
type RS256Verifier struct {
	keys    *KeySet
	issuers []string
	aud     []string
	leeway  time.Duration
}

// NewVerifierRS256 creates a verifier using a KeySet of RSA public keys. Any
// of issuers is accepted; at least one audience must match.
func NewVerifierRS256(keys *KeySet, issuers []string, aud []string, leeway time.Duration) *RS256Verifier {
	return &RS256Verifier{keys: keys, issuers: issuers, aud: aud, leeway: leeway}
}

// Verify validates the JWT string and returns its parsed claims. An unknown
// kid is reported as ErrUnknownKID so callers can refresh their key set.
func (v *RS256Verifier) Verify(tokenStr string) (*IDClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &IDClaims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("jwtx: missing kid")
		}

		pub, err := v.keys.Get(kid)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		if errors.Is(err, ErrUnknownKID) {
			return nil, ErrUnknownKID
		}
		return nil, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	claims, ok := token.Claims.(*IDClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}

	if err := validateIssuer(&claims.RegisteredClaims, v.issuers...); err != nil {
		return nil, err
	}
	if err := validateAudience(&claims.RegisteredClaims, v.aud); err != nil {
		return nil, err
	}
	if err := validateTimes(&claims.RegisteredClaims, v.leeway); err != nil {
		return nil, err
	}

	return claims, nil
}
