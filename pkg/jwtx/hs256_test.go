package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ridesafe/identity/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLength))

func TestNewHS256_RejectsShortSecret(t *testing.T) {
	_, err := jwtx.NewHS256([]byte("short"), "")
	require.Error(t, err)
}

func TestHS256SignAndVerify(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "ridesafe")
	require.NoError(t, err)
	require.Equal(t, "HS256", h.Alg())

	claims := jwtx.NewSessionClaims("acct-1", "admin", 2, time.Hour, "ridesafe", time.Now())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	parsed, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", parsed.Subject)
	require.Equal(t, "admin", parsed.Role)
	require.Equal(t, 2, parsed.TokenVersion)
	require.Equal(t, claims.ID, parsed.ID)
}

func TestHS256VerifyFailures(t *testing.T) {
	h, err := jwtx.NewHS256(testSecret, "ridesafe")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("acct-1", "rider", 0, time.Minute, "ridesafe", time.Now().Add(-time.Hour))
		token, err := h.Sign(claims)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte(strings.Repeat("x", 40)), "ridesafe")
		require.NoError(t, err)
		token, err := other.Sign(jwtx.NewSessionClaims("acct-1", "rider", 0, time.Hour, "ridesafe", time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewSessionClaims("acct-1", "rider", 0, time.Hour, "someone-else", time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := h.Verify("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("alg none rejected", func(t *testing.T) {
		claims := jwtx.NewSessionClaims("acct-1", "admin", 0, time.Hour, "ridesafe", time.Now())
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := h.Sign(jwtx.NewSessionClaims("", "rider", 0, time.Hour, "ridesafe", time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}
