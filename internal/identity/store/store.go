package store

import (
	"context"
	"errors"
	"time"

	"github.com/ridesafe/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrStale is returned by conditional writes when the row changed since
	// it was read. Callers re-read and retry.
	ErrStale = errors.New("store: stale version")

	// ErrUnavailable wraps driver errors that are worth retrying (busy
	// database, deadline exceeded).
	ErrUnavailable = errors.New("store: unavailable")
)

// ConflictError reports which unique field collided on insert or update.
type ConflictError struct {
	Field string // "email", "username", "google_id"
}

func (e *ConflictError) Error() string { return "store: duplicate " + e.Field }
func (e *ConflictError) Unwrap() error { return ErrAlreadyExists }

// ConflictField returns the colliding field of a unique violation, or "" if
// err is not one.
func ConflictField(err error) string {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Field
	}
	return ""
}

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable, and so a
// transaction cannot be opened from inside another one.
type Store interface {
	Accounts() Accounts
	BackupCodes() BackupCodes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error, the
	// transaction is rolled back; otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Accounts reads and writes Account records. Every getter skips soft-deleted
// rows. Every write bumps the row's version and updated_at.
type Accounts interface {
	// Create inserts a new account (id is provided by the service via ULID).
	// A unique violation is reported as *ConflictError.
	Create(ctx context.Context, a domain.Account) error

	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	GetByGoogleID(ctx context.Context, googleID string) (domain.Account, error)
	GetByResetTokenHash(ctx context.Context, hash string) (domain.Account, error)

	// List returns non-deleted accounts, newest first. Admins are left out
	// unless includeAdmins is set.
	List(ctx context.Context, includeAdmins bool) ([]domain.Account, error)

	// Update writes every mutable column of a, but only if the stored
	// version still equals a.Version. Returns the account as stored, or
	// ErrStale / ErrNotFound.
	Update(ctx context.Context, a domain.Account) (domain.Account, error)

	// SetResetToken stores a reset-token fingerprint, overwriting any
	// previous one.
	SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error

	// ClearResetToken removes the reset token only if it still equals hash.
	ClearResetToken(ctx context.Context, id, hash string) error

	// ResetPassword sets a new password hash, clears the reset token and
	// bumps the token version, all conditional on the token still being
	// present and unexpired. ErrNotFound if it was already used or expired.
	ResetPassword(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) error

	// LinkGoogleID attaches a Google subject to an account that has none.
	// ErrNotFound if the account is gone or already linked.
	LinkGoogleID(ctx context.Context, id, googleID string) error

	// ClearExpiredResetTokens is housekeeping.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// BackupCodes stores bcrypt hashed 2FA recovery codes.
type BackupCodes interface {
	// ReplaceAll deletes every code for the account and stores the new set.
	ReplaceAll(ctx context.Context, accountID string, hashes []string, now time.Time) error

	// ListUnused returns codes that have not been consumed.
	ListUnused(ctx context.Context, accountID string) ([]domain.BackupCode, error)

	// MarkUsed consumes a code. Returns false if it was already used.
	MarkUsed(ctx context.Context, id int64, now time.Time) (bool, error)

	CountUnused(ctx context.Context, accountID string) (int, error)

	DeleteAll(ctx context.Context, accountID string) error

	// DeleteUsedBefore is housekeeping for consumed codes.
	DeleteUsedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
