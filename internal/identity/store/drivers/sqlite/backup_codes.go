package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ridesafe/identity/internal/identity/domain"
)

type backupCodesRepo struct {
	db sqlx.ExtContext
}

type backupCodeRow struct {
	ID        int64        `db:"id"`
	AccountID string       `db:"account_id"`
	CodeHash  string       `db:"code_hash"`
	UsedAt    sql.NullTime `db:"used_at"`
	CreatedAt time.Time    `db:"created_at"`
}

// ReplaceAll should run inside a transaction so the old set never disappears
// without the new one landing.
func (r *backupCodesRepo) ReplaceAll(ctx context.Context, accountID string, hashes []string, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM backup_codes WHERE account_id = ?`, accountID); err != nil {
		return mapErr(err)
	}
	for _, h := range hashes {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO backup_codes (account_id, code_hash, created_at) VALUES (?, ?, ?)`,
			accountID, h, now.UTC())
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *backupCodesRepo) ListUnused(ctx context.Context, accountID string) ([]domain.BackupCode, error) {
	var rows []backupCodeRow
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, account_id, code_hash, used_at, created_at
		FROM backup_codes
		WHERE account_id = ? AND used_at IS NULL
		ORDER BY id`, accountID)
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.BackupCode, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BackupCode{
			ID:        row.ID,
			AccountID: row.AccountID,
			CodeHash:  row.CodeHash,
			UsedAt:    timePtr(row.UsedAt),
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (r *backupCodesRepo) MarkUsed(ctx context.Context, id int64, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE backup_codes SET used_at = ? WHERE id = ? AND used_at IS NULL`, now.UTC(), id)
	if err != nil {
		return false, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapErr(err)
	}
	return n == 1, nil
}

func (r *backupCodesRepo) CountUnused(ctx context.Context, accountID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n,
		`SELECT COUNT(1) FROM backup_codes WHERE account_id = ? AND used_at IS NULL`, accountID)
	return n, mapErr(err)
}

func (r *backupCodesRepo) DeleteAll(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM backup_codes WHERE account_id = ?`, accountID)
	return mapErr(err)
}

func (r *backupCodesRepo) DeleteUsedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM backup_codes WHERE used_at IS NOT NULL AND used_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}
