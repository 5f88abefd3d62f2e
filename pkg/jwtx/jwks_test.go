package jwtx

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeySet_ResetFromJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	ks := NewKeySet()
	require.False(t, ks.IsReady())
	require.True(t, ks.Stale(time.Hour))

	jwks := JWKS{Keys: []JWK{
		NewRSAJWK("sig-key", "sig", "RS256", &key.PublicKey),
		{Kty: "RSA", Use: "enc", Kid: "enc-key", N: "AQAB", E: "AQAB"},
		{Kty: "EC", Kid: "ec-key", Alg: "ES256"},
	}}
	require.NoError(t, ks.ResetFromJWKS(jwks))

	require.True(t, ks.IsReady())
	require.False(t, ks.Stale(time.Hour))
	require.False(t, ks.FetchedAt().IsZero())
	require.Len(t, ks.Snapshot().Keys, 3)

	pub, err := ks.Get("sig-key")
	require.NoError(t, err)
	require.Equal(t, key.PublicKey.N, pub.N)
	require.Equal(t, key.PublicKey.E, pub.E)

	_, err = ks.Get("enc-key")
	require.ErrorIs(t, err, ErrNoKey)
	_, err = ks.Get("ec-key")
	require.ErrorIs(t, err, ErrNoKey)
}

func TestKeySet_MalformedKeyLeavesSetUntouched(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	ks := NewKeySet()
	require.NoError(t, ks.ResetFromJWKS(JWKS{Keys: []JWK{NewRSAJWK("good", "sig", "RS256", &key.PublicKey)}}))

	err = ks.ResetFromJWKS(JWKS{Keys: []JWK{{Kty: "RSA", Kid: "bad", N: "!!!", E: "AQAB"}}})
	require.Error(t, err)

	_, err = ks.Get("good")
	require.NoError(t, err)
}
