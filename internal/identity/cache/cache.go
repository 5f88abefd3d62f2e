// Package cache holds short-lived state that must not live on the account
// record, such as a 2FA secret that has been generated but not confirmed.
package cache

import (
	"context"
	"errors"
	"time"
)

// PendingTwoFactorTTL is how long a generated secret waits for confirmation.
const PendingTwoFactorTTL = 10 * time.Minute

var (
	ErrMiss        = errors.New("cache: miss")
	ErrUnavailable = errors.New("cache: unavailable")
)

// PendingEnrollments stores generated but unconfirmed TOTP secrets keyed by
// account id. Put replaces any earlier pending secret.
type PendingEnrollments interface {
	Put(ctx context.Context, accountID, secret string, ttl time.Duration) error
	Get(ctx context.Context, accountID string) (string, error)
	Delete(ctx context.Context, accountID string) error
	Ping(ctx context.Context) error
}
