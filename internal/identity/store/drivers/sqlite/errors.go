package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ridesafe/identity/internal/identity/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// uniqueFields maps fragments of sqlite's unique violation message to the
// domain field that collided.
var uniqueFields = []struct{ needle, field string }{
	{"google_id", "google_id"},
	{"reset_token_hash", "reset_token_hash"},
	{"username", "username"},
	{"email", "email"},
}

// mapErr translates driver errors into store errors. Unknown errors pass
// through unchanged.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}

	var se *msqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &store.ConflictError{Field: conflictField(se.Error())}
		case code&0xff == sqlite3.SQLITE_BUSY || code&0xff == sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
		}
	}
	return err
}

func conflictField(msg string) string {
	_, cols, ok := strings.Cut(msg, "failed:")
	if !ok {
		cols = msg
	}
	for _, f := range uniqueFields {
		if strings.Contains(cols, f.needle) {
			return f.field
		}
	}
	return "id"
}
