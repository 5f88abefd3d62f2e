package identitysdk

import "time"

// Account is the public view of an account. It never includes the password
// hash, the TOTP secret or reset-token state.
type Account struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	ContactNumber    string    `json:"contactNumber,omitempty"`
	Role             string    `json:"role"`
	AuthProvider     string    `json:"authProvider"`
	GoogleLinked     bool      `json:"googleLinked"`
	Picture          string    `json:"picture,omitempty"`
	DeviceID         string    `json:"deviceId,omitempty"`
	EmailVerified    bool      `json:"emailVerified"`
	PhoneVerified    bool      `json:"phoneVerified"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	Visibility       string    `json:"visibility"`
	Contacts         []Contact `json:"contacts"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Contact struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Relation      string    `json:"relation"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Requests

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	ContactNumber   string `json:"contactNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	DeviceID        string `json:"deviceId,omitempty"`
}

// LoginRequest is used by both rider and admin login. Identifier is an
// email or a username. Code is a TOTP or backup code, required once 2FA is
// on.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Code       string `json:"code,omitempty"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
	Code    string `json:"code,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateProfileRequest changes only the fields that are set.
type UpdateProfileRequest struct {
	Username      *string `json:"username,omitempty"`
	Email         *string `json:"email,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`
	Picture       *string `json:"picture,omitempty"`
	DeviceID      *string `json:"deviceId,omitempty"`
	Visibility    *string `json:"visibility,omitempty"`
}

// UpdateUserRequest is the admin variant of UpdateProfileRequest. It may
// also set a password and the verification flags.
type UpdateUserRequest struct {
	UpdateProfileRequest
	Password      *string `json:"password,omitempty"`
	EmailVerified *bool   `json:"emailVerified,omitempty"`
	PhoneVerified *bool   `json:"phoneVerified,omitempty"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type ContactRequest struct {
	Name          string `json:"name"`
	Relation      string `json:"relation"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email,omitempty"`
}

// CodeRequest carries a TOTP code for 2FA confirmation and backup-code
// regeneration.
type CodeRequest struct {
	Code string `json:"code"`
}

// DisableTwoFactorRequest needs the password, or a TOTP code for accounts
// that sign in with Google only.
type DisableTwoFactorRequest struct {
	Password string `json:"password,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Responses. Every body carries success and usually a message.

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type SessionResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message,omitempty"`
	Token     string  `json:"token"`
	Account   Account `json:"account"`
	IsNewUser bool    `json:"isNewUser"`
}

type AccountResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Account Account `json:"account"`
}

type AccountsResponse struct {
	Success  bool      `json:"success"`
	Count    int       `json:"count"`
	Accounts []Account `json:"accounts"`
}

type ContactResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Contact Contact `json:"contact"`
}

type ContactsResponse struct {
	Success  bool      `json:"success"`
	Contacts []Contact `json:"contacts"`
}

type PasswordChangedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}

type TwoFactorSetupResponse struct {
	Success bool   `json:"success"`
	Secret  string `json:"secret"`
	URL     string `json:"otpauthUrl"`
	QRCode  string `json:"qrCode"`
}

type BackupCodesResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message,omitempty"`
	BackupCodes []string `json:"backupCodes"`
}

type TwoFactorStatusResponse struct {
	Success                  bool       `json:"success"`
	Enabled                  bool       `json:"enabled"`
	EnabledAt                *time.Time `json:"enabledAt,omitempty"`
	BackupCodesRemaining     int        `json:"backupCodesRemaining"`
	BackupCodesRegeneratedAt *time.Time `json:"backupCodesRegeneratedAt,omitempty"`
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success           bool         `json:"success"`
	Message           string       `json:"message"`
	Type              string       `json:"type,omitempty"`
	Errors            []FieldError `json:"errors,omitempty"`
	TwoFactorRequired bool         `json:"twoFactorRequired,omitempty"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Google   string `json:"google,omitempty"`
}
