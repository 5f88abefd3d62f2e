package jwtx

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
	"sync"
	"time"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds public verification keys fetched from a third-party JWKS
// endpoint. It's thread-safe; readers verify tokens while a refresh swaps
// the whole set in.
type KeySet struct {
	mu        sync.RWMutex
	jks       JWKS
	pub       map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]*rsa.PublicKey)}
}

// Get returns the public key for the given kid.
func (k *KeySet) Get(kid string) (*rsa.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// Snapshot returns the JWKS the set was last loaded from.
func (k *KeySet) Snapshot() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.jks
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}

// FetchedAt reports when the set was last replaced. Zero if never loaded.
func (k *KeySet) FetchedAt() time.Time {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.fetchedAt
}

// Stale reports whether the set is empty or older than maxAge.
func (k *KeySet) Stale(maxAge time.Duration) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) == 0 || time.Since(k.fetchedAt) > maxAge
}

// ResetFromJWKS replaces all keys from a JWKS. Keys that are not RSA
// signing keys are skipped; the set is left untouched if any RSA key is
// malformed.
func (k *KeySet) ResetFromJWKS(jwks JWKS) error {
	next := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, j := range jwks.Keys {
		if j.Kty != "RSA" || (j.Use != "" && j.Use != "sig") {
			continue
		}
		key, err := parseRSAJWK(j)
		if err != nil {
			return err
		}
		next[j.Kid] = key
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub = next
	k.jks = jwks
	k.fetchedAt = time.Now()
	return nil
}

func parseRSAJWK(j JWK) (*rsa.PublicKey, error) {
	if j.Kid == "" {
		return nil, errors.New("jwtx: JWK missing kid")
	}
	nb, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, err
	}
	if len(nb) == 0 || len(eb) == 0 {
		return nil, errors.New("jwtx: JWK missing RSA parameters")
	}
	n := new(big.Int).SetBytes(nb)
	e := new(big.Int).SetBytes(eb).Int64()
	return &rsa.PublicKey{N: n, E: int(e)}, nil
}
