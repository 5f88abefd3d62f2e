package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ridesafe/identity/internal/identity/domain"
	"github.com/ridesafe/identity/internal/identity/store"
)

const accountColumns = `id, username, email, contact_number, password_hash, role, auth_provider,
	google_id, picture, device_id, email_verified, phone_verified,
	two_factor_enabled, two_factor_secret, two_factor_enabled_at,
	visibility, token_version, backup_codes_regenerated_at,
	reset_token_hash, reset_token_expires_at, contacts,
	version, created_at, updated_at, deleted_at`

type accountsRepo struct {
	db sqlx.ExtContext
}

type accountRow struct {
	ID                       string         `db:"id"`
	Username                 string         `db:"username"`
	Email                    string         `db:"email"`
	ContactNumber            string         `db:"contact_number"`
	PasswordHash             sql.NullString `db:"password_hash"`
	Role                     string         `db:"role"`
	AuthProvider             string         `db:"auth_provider"`
	GoogleID                 sql.NullString `db:"google_id"`
	Picture                  string         `db:"picture"`
	DeviceID                 string         `db:"device_id"`
	EmailVerified            bool           `db:"email_verified"`
	PhoneVerified            bool           `db:"phone_verified"`
	TwoFactorEnabled         bool           `db:"two_factor_enabled"`
	TwoFactorSecret          sql.NullString `db:"two_factor_secret"`
	TwoFactorEnabledAt       sql.NullTime   `db:"two_factor_enabled_at"`
	Visibility               string         `db:"visibility"`
	TokenVersion             int            `db:"token_version"`
	BackupCodesRegeneratedAt sql.NullTime   `db:"backup_codes_regenerated_at"`
	ResetTokenHash           sql.NullString `db:"reset_token_hash"`
	ResetTokenExpiresAt      sql.NullTime   `db:"reset_token_expires_at"`
	Contacts                 string         `db:"contacts"`
	Version                  int            `db:"version"`
	CreatedAt                time.Time      `db:"created_at"`
	UpdatedAt                time.Time      `db:"updated_at"`
	DeletedAt                sql.NullTime   `db:"deleted_at"`
}

// contactDoc is the JSON shape of a contact inside the contacts column.
type contactDoc struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Relation      string    `json:"relation"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	row, err := toAccountRow(a)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (:id, :username, :email, :contact_number, :password_hash, :role, :auth_provider,
			:google_id, :picture, :device_id, :email_verified, :phone_verified,
			:two_factor_enabled, :two_factor_secret, :two_factor_enabled_at,
			:visibility, :token_version, :backup_codes_regenerated_at,
			:reset_token_hash, :reset_token_expires_at, :contacts,
			:version, :created_at, :updated_at, :deleted_at)`, row)
	return mapErr(err)
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.getOne(ctx, `email = ?`, email)
}

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.getOne(ctx, `username = ?`, username)
}

func (r *accountsRepo) GetByGoogleID(ctx context.Context, googleID string) (domain.Account, error) {
	return r.getOne(ctx, `google_id = ?`, googleID)
}

func (r *accountsRepo) GetByResetTokenHash(ctx context.Context, hash string) (domain.Account, error) {
	return r.getOne(ctx, `reset_token_hash = ?`, hash)
}

func (r *accountsRepo) getOne(ctx context.Context, where string, arg any) (domain.Account, error) {
	var row accountRow
	err := sqlx.GetContext(ctx, r.db, &row,
		`SELECT `+accountColumns+` FROM accounts WHERE `+where+` AND deleted_at IS NULL`, arg)
	if err != nil {
		return domain.Account{}, mapErr(err)
	}
	return row.toDomain()
}

func (r *accountsRepo) List(ctx context.Context, includeAdmins bool) ([]domain.Account, error) {
	q := `SELECT ` + accountColumns + ` FROM accounts WHERE deleted_at IS NULL`
	var args []any
	if !includeAdmins {
		q += ` AND role != ?`
		args = append(args, string(domain.RoleAdmin))
	}
	q += ` ORDER BY created_at DESC, id DESC`

	var rows []accountRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, q, args...); err != nil {
		return nil, mapErr(err)
	}

	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		a, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *accountsRepo) Update(ctx context.Context, a domain.Account) (domain.Account, error) {
	row, err := toAccountRow(a)
	if err != nil {
		return domain.Account{}, err
	}
	row.UpdatedAt = time.Now().UTC()

	res, err := sqlx.NamedExecContext(ctx, r.db, `
		UPDATE accounts SET
			username = :username,
			email = :email,
			contact_number = :contact_number,
			password_hash = :password_hash,
			role = :role,
			auth_provider = :auth_provider,
			google_id = :google_id,
			picture = :picture,
			device_id = :device_id,
			email_verified = :email_verified,
			phone_verified = :phone_verified,
			two_factor_enabled = :two_factor_enabled,
			two_factor_secret = :two_factor_secret,
			two_factor_enabled_at = :two_factor_enabled_at,
			visibility = :visibility,
			token_version = :token_version,
			backup_codes_regenerated_at = :backup_codes_regenerated_at,
			reset_token_hash = :reset_token_hash,
			reset_token_expires_at = :reset_token_expires_at,
			contacts = :contacts,
			version = version + 1,
			updated_at = :updated_at,
			deleted_at = :deleted_at
		WHERE id = :id AND version = :version AND deleted_at IS NULL`, row)
	if err != nil {
		return domain.Account{}, mapErr(err)
	}
	if err := r.checkUpdated(ctx, res, a.ID); err != nil {
		return domain.Account{}, err
	}

	a.Version++
	a.UpdatedAt = row.UpdatedAt
	return a, nil
}

// checkUpdated tells a lost race (ErrStale) apart from a missing account.
func (r *accountsRepo) checkUpdated(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = sqlx.GetContext(ctx, r.db, &exists,
		`SELECT COUNT(1) FROM accounts WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return mapErr(err)
	}
	if exists == 0 {
		return store.ErrNotFound
	}
	return store.ErrStale
}

func (r *accountsRepo) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET reset_token_hash = ?, reset_token_expires_at = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		hash, expiresAt.UTC(), time.Now().UTC(), id)
	return affectedOrNotFound(res, err)
}

func (r *accountsRepo) ClearResetToken(ctx context.Context, id, hash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET reset_token_hash = NULL, reset_token_expires_at = NULL, version = version + 1, updated_at = ?
		WHERE id = ? AND reset_token_hash = ?`,
		time.Now().UTC(), id, hash)
	return mapErr(err)
}

func (r *accountsRepo) ResetPassword(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET password_hash = ?,
			reset_token_hash = NULL,
			reset_token_expires_at = NULL,
			token_version = token_version + 1,
			version = version + 1,
			updated_at = ?
		WHERE id = ?
			AND reset_token_hash = ?
			AND reset_token_expires_at > ?
			AND deleted_at IS NULL`,
		passwordHash, now.UTC(), id, tokenHash, now.UTC())
	return affectedOrNotFound(res, err)
}

func (r *accountsRepo) LinkGoogleID(ctx context.Context, id, googleID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET google_id = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND google_id IS NULL AND deleted_at IS NULL`,
		googleID, time.Now().UTC(), id)
	return affectedOrNotFound(res, err)
}

func (r *accountsRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET reset_token_hash = NULL, reset_token_expires_at = NULL, version = version + 1
		WHERE reset_token_hash IS NOT NULL AND reset_token_expires_at <= ?`,
		now.UTC())
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected()
}

func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toAccountRow(a domain.Account) (accountRow, error) {
	docs := make([]contactDoc, 0, len(a.Contacts))
	for _, c := range a.Contacts {
		docs = append(docs, contactDoc{
			ID:            c.ID,
			Name:          c.Name,
			Relation:      c.Relation,
			ContactNumber: c.ContactNumber,
			Email:         c.Email,
			CreatedAt:     c.CreatedAt.UTC(),
			UpdatedAt:     c.UpdatedAt.UTC(),
		})
	}
	contacts, err := json.Marshal(docs)
	if err != nil {
		return accountRow{}, fmt.Errorf("encode contacts: %w", err)
	}

	visibility := a.Security.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}

	return accountRow{
		ID:                       a.ID,
		Username:                 a.Username,
		Email:                    a.Email,
		ContactNumber:            a.ContactNumber,
		PasswordHash:             nullString(a.PasswordHash),
		Role:                     string(a.Role),
		AuthProvider:             string(a.AuthProvider),
		GoogleID:                 nullString(a.GoogleID),
		Picture:                  a.Picture,
		DeviceID:                 a.DeviceID,
		EmailVerified:            a.EmailVerified,
		PhoneVerified:            a.PhoneVerified,
		TwoFactorEnabled:         a.TwoFactor.Enabled,
		TwoFactorSecret:          nullString(a.TwoFactor.Secret),
		TwoFactorEnabledAt:       nullTime(a.TwoFactor.EnabledAt),
		Visibility:               string(visibility),
		TokenVersion:             a.Security.TokenVersion,
		BackupCodesRegeneratedAt: nullTime(a.Security.BackupCodesRegeneratedAt),
		ResetTokenHash:           nullString(a.ResetTokenHash),
		ResetTokenExpiresAt:      nullTime(a.ResetTokenExpiresAt),
		Contacts:                 string(contacts),
		Version:                  a.Version,
		CreatedAt:                a.CreatedAt.UTC(),
		UpdatedAt:                a.UpdatedAt.UTC(),
		DeletedAt:                nullTime(a.DeletedAt),
	}, nil
}

func (row accountRow) toDomain() (domain.Account, error) {
	var docs []contactDoc
	if row.Contacts != "" {
		if err := json.Unmarshal([]byte(row.Contacts), &docs); err != nil {
			return domain.Account{}, fmt.Errorf("decode contacts for %s: %w", row.ID, err)
		}
	}
	contacts := make([]domain.Contact, 0, len(docs))
	for _, d := range docs {
		contacts = append(contacts, domain.Contact{
			ID:            d.ID,
			Name:          d.Name,
			Relation:      d.Relation,
			ContactNumber: d.ContactNumber,
			Email:         d.Email,
			CreatedAt:     d.CreatedAt,
			UpdatedAt:     d.UpdatedAt,
		})
	}

	return domain.Account{
		ID:            row.ID,
		Username:      row.Username,
		Email:         row.Email,
		ContactNumber: row.ContactNumber,
		PasswordHash:  row.PasswordHash.String,
		Role:          domain.Role(row.Role),
		AuthProvider:  domain.AuthProvider(row.AuthProvider),
		GoogleID:      row.GoogleID.String,
		Picture:       row.Picture,
		DeviceID:      row.DeviceID,
		EmailVerified: row.EmailVerified,
		PhoneVerified: row.PhoneVerified,
		TwoFactor: domain.TwoFactor{
			Enabled:   row.TwoFactorEnabled,
			Secret:    row.TwoFactorSecret.String,
			EnabledAt: timePtr(row.TwoFactorEnabledAt),
		},
		Security: domain.Security{
			Visibility:               domain.Visibility(row.Visibility),
			TokenVersion:             row.TokenVersion,
			BackupCodesRegeneratedAt: timePtr(row.BackupCodesRegeneratedAt),
		},
		ResetTokenHash:      row.ResetTokenHash.String,
		ResetTokenExpiresAt: timePtr(row.ResetTokenExpiresAt),
		Contacts:            contacts,
		Version:             row.Version,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
		DeletedAt:           timePtr(row.DeletedAt),
	}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
