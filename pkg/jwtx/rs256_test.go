package jwtx_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ridesafe/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	exampleIssuer   = "https://accounts.example.com"
	exampleAudience = "client-123.apps.example.com"
)

func signIDToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwtx.IDClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func newIDClaims(now time.Time) jwtx.IDClaims {
	return jwtx.IDClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    exampleIssuer,
			Subject:   "10987654321",
			Audience:  jwt.ClaimStrings{exampleAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:         "rider@example.com",
		EmailVerified: true,
		Name:          "Ada Rider",
		Picture:       "https://example.com/ada.png",
	}
}

func newKeySet(t *testing.T, kid string, pub *rsa.PublicKey) *jwtx.KeySet {
	t.Helper()
	ks := jwtx.NewKeySet()
	require.NoError(t, ks.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{
		jwtx.NewRSAJWK(kid, "sig", "RS256", pub),
	}}))
	return ks
}

func TestRS256Verify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ks := newKeySet(t, "k1", &key.PublicKey)

	v := jwtx.NewVerifierRS256(ks, []string{"accounts.example.com", exampleIssuer}, []string{exampleAudience}, time.Minute)

	t.Run("valid token", func(t *testing.T) {
		token := signIDToken(t, key, "k1", newIDClaims(time.Now()))
		claims, err := v.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "10987654321", claims.Subject)
		require.Equal(t, "rider@example.com", claims.Email)
		require.True(t, claims.EmailVerified)
		require.Equal(t, "Ada Rider", claims.Name)
	})

	t.Run("unknown kid", func(t *testing.T) {
		token := signIDToken(t, key, "k2", newIDClaims(time.Now()))
		_, err := v.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := newIDClaims(time.Now())
		c.Audience = jwt.ClaimStrings{"someone-else"}
		_, err := v.Verify(signIDToken(t, key, "k1", c))
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := newIDClaims(time.Now())
		c.Issuer = "https://evil.example.com"
		_, err := v.Verify(signIDToken(t, key, "k1", c))
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		c := newIDClaims(time.Now().Add(-3 * time.Hour))
		_, err := v.Verify(signIDToken(t, key, "k1", c))
		require.Error(t, err)
	})

	t.Run("signed by another key", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = v.Verify(signIDToken(t, other, "k1", newIDClaims(time.Now())))
		require.Error(t, err)
	})
}
