package domain

import "time"

// TwoFactorEnrollment is handed to the client when enrollment starts. The
// secret is held in the pending cache, not on the account, until confirmed.
type TwoFactorEnrollment struct {
	Secret string
	URL    string // otpauth:// provisioning URI
	QRCode string // data:image/png;base64,...
}

type TwoFactorStatus struct {
	Enabled                  bool
	EnabledAt                *time.Time
	BackupCodesRemaining     int
	BackupCodesRegeneratedAt *time.Time
}

// BackupCode is a bcrypt hashed recovery code. UsedAt is set when consumed.
type BackupCode struct {
	ID        int64
	AccountID string
	CodeHash  string
	UsedAt    *time.Time
	CreatedAt time.Time
}
