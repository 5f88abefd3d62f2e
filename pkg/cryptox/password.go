package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when a Hasher is built with a
// zero cost. It is kept above bcrypt.DefaultCost on purpose.
const DefaultCost = 12

// Hasher hashes and verifies secrets (passwords, backup codes) with bcrypt.
//
// The secret is first run through HMAC-SHA256 keyed with the pepper so that
// the value handed to bcrypt is always 44 bytes, well below bcrypt's 72 byte
// input limit, and so a leaked database alone is not enough to brute force
// hashes offline.
type Hasher struct {
	Cost   int
	Pepper string
}

// NewHasher returns a Hasher using the given cost, clamped into the range
// bcrypt accepts. A zero cost selects DefaultCost. The pepper is loaded via
// GetPepper.
func NewHasher(cost int) *Hasher {
	return &Hasher{Cost: normaliseCost(cost), Pepper: GetPepper()}
}

func normaliseCost(cost int) int {
	switch {
	case cost == 0:
		return DefaultCost
	case cost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	default:
		return cost
	}
}

// Hash returns a bcrypt hash of the peppered secret.
func (h *Hasher) Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(h.prepare(secret), normaliseCost(h.Cost))
	if err != nil {
		return "", fmt.Errorf("cryptox: hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether candidate matches hash. A mismatch is (false, nil);
// a malformed hash or library failure is (false, err). Callers must never
// treat an error as acceptance.
func (h *Hasher) Verify(candidate, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), h.prepare(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("cryptox: verify: %w", err)
	}
}

// DummyHash returns a hash of a random value at the Hasher's cost. Comparing
// against it takes as long as a real comparison, which keeps login timing
// the same whether or not the account exists.
func (h *Hasher) DummyHash() string {
	hash, err := h.Hash(MustGenerateToken(TokenSize128))
	if err != nil {
		// bcrypt only fails on oversized input or bad cost, neither possible here.
		panic(err)
	}
	return hash
}

func (h *Hasher) prepare(secret string) []byte {
	mac := hmac.New(sha256.New, []byte(h.Pepper))
	mac.Write([]byte(secret))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}
